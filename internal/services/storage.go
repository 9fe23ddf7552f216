package services

import (
	"fmt"
	"log"
	"os"
)

// StorageService hands out scratch files for decoders that can only work from a path.
// Every spooled file belongs to the caller until the returned release func runs.
type StorageService interface {
	Spool(data []byte, ext string) (path string, release func(), err error)
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Spool writes data to a new file in the upload directory. On error nothing is left
// behind; on success release removes the file and is safe to call more than once.
func (s *storageService) Spool(data []byte, ext string) (string, func(), error) {
	f, err := os.CreateTemp(s.uploadPath, "upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to write spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to close spool file: %w", err)
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to remove spool file %s: %v\n", path, err)
		}
	}

	return path, release, nil
}
