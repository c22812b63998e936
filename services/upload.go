// services/upload.go - Spray chart attachment storage
package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single spray chart upload at 5 MiB.
const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrNotAnImage   = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file exceeds the 5MB limit")
)

// UploadStore writes accepted spray chart images into a dedicated directory.
// Every write uses a fresh unique name, so files are never overwritten;
// replaced images stay on disk.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Dir returns the storage directory, for mounting as a static route.
func (s *UploadStore) Dir() string {
	return s.dir
}

// SaveSprayChart validates and stores one uploaded image, returning the
// stored filename to persist on the report. The declared content type and
// extension are trusted; file contents are not sniffed.
func (s *UploadStore) SaveSprayChart(fh *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrNotAnImage
	}
	if fh.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("spray-chart-%d-%s%s",
		time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}

	return name, nil
}
