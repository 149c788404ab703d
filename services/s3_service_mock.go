package services

import (
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	objects map[string][]byte // map of S3 key to object content
	mu      sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadObject simulates uploading an object to S3
func (m *MockS3Service) UploadObject(key string, content []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
	return fmt.Sprintf("https://mock-bucket.s3.amazonaws.com/%s", key), nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, ok := m.objects[s3Key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object not found: %s", s3Key)
	}

	return fmt.Sprintf("https://mock-bucket.s3.amazonaws.com/%s?presigned=true", s3Key), nil
}

// DeleteObject simulates deleting an object from S3
func (m *MockS3Service) DeleteObject(s3Key string) error {
	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()
	return nil
}

// HasObject reports whether the mock holds an object at the given key
func (m *MockS3Service) HasObject(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
