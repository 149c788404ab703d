package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/wardrobe-manager/wardrobe-manager-api/utils"
)

// SavedImage describes a stored photo: the URL it is reachable at and the
// original client filename.
type SavedImage struct {
	Src      string `json:"src"`
	FileName string `json:"fileName"`
}

// ImageService handles photo storage. The service only passes bytes through
// and hands back a URL; no resizing or content inspection happens here.
type ImageService interface {
	// SaveImage validates and stores an uploaded image file
	SaveImage(fileHeader *multipart.FileHeader) (SavedImage, error)

	// RenameImage renames a stored image to match a garment name and photo
	// position, returning the new src. Only locally stored images support
	// renaming.
	RenameImage(src, name string, index int) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(src string) error
}

var imageServiceInstance ImageService

// InitImageService picks the storage backend: S3 when a bucket is
// configured, the local uploads directory otherwise.
func InitImageService(uploadDir string, s3Service S3Interface) ImageService {
	if s3Service != nil {
		imageServiceInstance = &S3ImageService{s3Service: s3Service}
	} else {
		imageServiceInstance = &LocalImageService{UploadDir: uploadDir}
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// LocalImageService stores images on the local filesystem, served back via
// the uploads route.
type LocalImageService struct {
	UploadDir string
}

// localPrefix is the URL prefix for locally served uploads
const localPrefix = "/api/v1/uploads/"

// SaveImage validates and writes the file into the uploads directory
func (s *LocalImageService) SaveImage(fileHeader *multipart.FileHeader) (SavedImage, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return SavedImage{}, err
	}

	storedName := utils.NewImageFileName(fileHeader.Filename)
	if _, err := utils.SaveUploadedFile(fileHeader, s.UploadDir, storedName); err != nil {
		return SavedImage{}, fmt.Errorf("failed to save image: %w", err)
	}

	return SavedImage{
		Src:      utils.GetImageURL(storedName),
		FileName: filepath.Base(fileHeader.Filename),
	}, nil
}

// RenameImage renames the stored file to a slug of the garment name
func (s *LocalImageService) RenameImage(src, name string, index int) (string, error) {
	oldFile, ok := localFileFromSrc(src)
	if !ok {
		return "", &utils.FileUploadError{Code: "INVALID_SRC", Message: "Only local uploads can be renamed"}
	}

	oldAbs := filepath.Join(s.UploadDir, oldFile)
	if _, err := os.Stat(oldAbs); err != nil {
		return "", &utils.FileUploadError{Code: "FILE_NOT_FOUND", Message: "Image not found"}
	}

	slug := utils.SafeSlug(name)
	if slug == "" {
		slug = "garment"
	}
	pos := ""
	if index >= 0 {
		pos = fmt.Sprintf("-%d", index+1)
	}
	ext := filepath.Ext(oldFile)
	if ext == "" {
		ext = ".jpg"
	}
	nextFile := fmt.Sprintf("%s%s-%s%s", slug, pos, uuid.NewString()[:8], ext)

	if err := os.Rename(oldAbs, filepath.Join(s.UploadDir, nextFile)); err != nil {
		return "", fmt.Errorf("failed to rename image: %w", err)
	}

	return utils.GetImageURL(nextFile), nil
}

// DeleteImage removes the stored file; a missing file is not an error
func (s *LocalImageService) DeleteImage(src string) error {
	file, ok := localFileFromSrc(src)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(s.UploadDir, file)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// localFileFromSrc extracts the stored filename from a local upload URL,
// rejecting anything that could escape the uploads directory
func localFileFromSrc(src string) (string, bool) {
	if !strings.HasPrefix(src, localPrefix) {
		return "", false
	}
	file := strings.TrimPrefix(src, localPrefix)
	if file == "" || strings.Contains(file, "..") || strings.ContainsAny(file, `/\`) {
		return "", false
	}
	return file, true
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

// SaveImage validates and uploads an image file to S3
func (s *S3ImageService) SaveImage(fileHeader *multipart.FileHeader) (SavedImage, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return SavedImage{}, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("warning: failed to close file: %v\n", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to read file: %w", err)
	}

	key := "uploads/" + utils.NewImageFileName(fileHeader.Filename)
	src, err := s.s3Service.UploadObject(key, content, utils.ContentTypeForFile(fileHeader.Filename))
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to upload image: %w", err)
	}

	return SavedImage{
		Src:      src,
		FileName: filepath.Base(fileHeader.Filename),
	}, nil
}

// RenameImage is not supported for S3-backed storage; object keys are stable
func (s *S3ImageService) RenameImage(src, name string, index int) (string, error) {
	return "", &utils.FileUploadError{Code: "INVALID_SRC", Message: "Only local uploads can be renamed"}
}

// DeleteImage deletes the object backing the given URL
func (s *S3ImageService) DeleteImage(src string) error {
	idx := strings.Index(src, "/uploads/")
	if idx < 0 {
		return nil
	}
	key := src[idx+1:]
	if err := s.s3Service.DeleteObject(key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
