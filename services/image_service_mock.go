package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/wardrobe-manager/wardrobe-manager-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedImages map[string][]byte // map of src to file content
	mu             sync.RWMutex

	// FailSave forces SaveImage to error, for exercising failure paths
	FailSave bool
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// SaveImage simulates storing an image
func (m *MockImageService) SaveImage(fileHeader *multipart.FileHeader) (SavedImage, error) {
	if m.FailSave {
		return SavedImage{}, fmt.Errorf("mock storage failure")
	}

	// Validate the image file
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return SavedImage{}, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to read file: %w", err)
	}

	src := fmt.Sprintf("/api/v1/uploads/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploadedImages[src] = content
	m.mu.Unlock()

	return SavedImage{Src: src, FileName: fileHeader.Filename}, nil
}

// RenameImage simulates renaming a stored image
func (m *MockImageService) RenameImage(src, name string, index int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.uploadedImages[src]
	if !ok {
		return "", &utils.FileUploadError{Code: "FILE_NOT_FOUND", Message: "Image not found"}
	}

	next := fmt.Sprintf("/api/v1/uploads/%s-%d", utils.SafeSlug(name), index+1)
	delete(m.uploadedImages, src)
	m.uploadedImages[next] = content
	return next, nil
}

// DeleteImage simulates deleting a stored image
func (m *MockImageService) DeleteImage(src string) error {
	m.mu.Lock()
	delete(m.uploadedImages, src)
	m.mu.Unlock()
	return nil
}

// HasImage reports whether the mock holds an image at the given src
func (m *MockImageService) HasImage(src string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.uploadedImages[src]
	return ok
}
