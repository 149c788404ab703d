package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedImageFormats are the accepted photo file extensions. Validation is
// extension sniffing only; image content is never inspected.
var AllowedImageFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := AllowedImageFormats[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("File extension %q is not an allowed image format", ext),
		}
	}

	return nil
}

// ContentTypeForFile returns the content type implied by the file extension
func ContentTypeForFile(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ct, ok := AllowedImageFormats[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// NewImageFileName generates a collision-free stored filename preserving the
// original extension
func NewImageFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || len(ext) > 10 {
		ext = ".jpg"
	}
	return fmt.Sprintf("img_%s%s", uuid.NewString(), ext)
}

// SaveUploadedFile saves the uploaded file to the local filesystem under the
// given stored filename. Returns the stored filename.
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir, storedName string) (filename string, err error) {
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Full path to save the file
	fullPath := filepath.Join(uploadDir, storedName)

	// Open the uploaded file
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			fmt.Printf("warning: failed to close source file: %v\n", closeErr)
		}
	}()

	// Create the destination file
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	// Copy the file
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return storedName, nil
}

// GetImageURL returns the URL path for accessing a locally uploaded image
func GetImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SafeSlug converts a garment name into a filename-safe slug
func SafeSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
