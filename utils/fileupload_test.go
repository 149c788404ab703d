package utils

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		size         int64
		expectedCode string
	}{
		{name: "Valid jpg", fileName: "coat.jpg", size: 1024},
		{name: "Valid png", fileName: "coat.png", size: 1024},
		{name: "Valid webp", fileName: "coat.webp", size: 1024},
		{name: "Uppercase extension", fileName: "coat.JPG", size: 1024},
		{name: "Too large", fileName: "coat.jpg", size: MaxFileSize + 1, expectedCode: "FILE_TOO_LARGE"},
		{name: "Wrong extension", fileName: "coat.txt", size: 1024, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "No extension", fileName: "coat", size: 1024, expectedCode: "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.fileName, Size: tt.size}
			err := ValidateImageFile(header)

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}
			var uploadErr *FileUploadError
			assert.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}

func TestContentTypeForFile(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForFile("coat.jpg"))
	assert.Equal(t, "image/png", ContentTypeForFile("coat.PNG"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFile("coat.txt"))
}

func TestNewImageFileName(t *testing.T) {
	name := NewImageFileName("my coat.png")
	assert.True(t, strings.HasPrefix(name, "img_"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// Collision-free for identical inputs
	assert.NotEqual(t, NewImageFileName("coat.jpg"), NewImageFileName("coat.jpg"))

	// Missing extension defaults to jpg
	assert.True(t, strings.HasSuffix(NewImageFileName("coat"), ".jpg"))
}

func TestGetImageURL(t *testing.T) {
	assert.Equal(t, "/api/v1/uploads/a.jpg", GetImageURL("a.jpg"))
	assert.Equal(t, "", GetImageURL(""))
}

func TestSafeSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Simple name", input: "Midnight Coat", expected: "midnight-coat"},
		{name: "Punctuation collapsed", input: "Silk -- Slip!!", expected: "silk-slip"},
		{name: "Leading and trailing junk trimmed", input: "  ~Coat~  ", expected: "coat"},
		{name: "Empty input", input: "", expected: ""},
		{name: "Only punctuation", input: "!!!", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeSlug(tt.input))
		})
	}

	t.Run("Long names are truncated", func(t *testing.T) {
		slug := SafeSlug(strings.Repeat("a", 200))
		assert.Len(t, slug, 80)
	})
}

func TestGenerateSKU(t *testing.T) {
	sku := GenerateSKU()
	assert.Regexp(t, `^WM-\d{8}-\d{4}$`, sku)
}
