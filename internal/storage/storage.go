// Package storage persists customer-uploaded resource files under the media
// root. Serving the files back (CDN, signed URLs) is someone else's job;
// this only validates and writes them.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/electioncart/electioncart/internal/models"
)

const maxImageSizeMB = 5

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
var documentExtensions = []string{".pdf", ".doc", ".docx"}

type Storage struct {
	root string
}

func New(root string) *Storage {
	return &Storage{root: root}
}

// SaveImage validates and stores an uploaded image (max 5MB, common image
// formats) and returns its path relative to the media root.
func (s *Storage) SaveImage(fh *multipart.FileHeader, subdir string) (string, error) {
	if err := ValidateFile(fh, maxImageSizeMB, imageExtensions); err != nil {
		return "", err
	}
	return s.save(fh, subdir)
}

// SaveUpload validates a dynamic-field file upload against its field
// definition and stores it.
func (s *Storage) SaveUpload(fh *multipart.FileHeader, def *models.ResourceFieldDefinition, subdir string) (string, error) {
	allowed := allowedExtensionsFor(def)
	maxMB := def.MaxFileSizeMB
	if maxMB <= 0 {
		maxMB = maxImageSizeMB
	}
	if err := ValidateFile(fh, maxMB, allowed); err != nil {
		return "", err
	}
	return s.save(fh, subdir)
}

// Remove deletes a previously saved file, given the relative path returned
// by SaveImage or SaveUpload. Missing files are not an error.
func (s *Storage) Remove(path string) error {
	err := os.Remove(filepath.Join(s.root, path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func allowedExtensionsFor(def *models.ResourceFieldDefinition) []string {
	if def.AllowedExtensions != "" {
		parts := strings.Split(def.AllowedExtensions, ",")
		exts := make([]string, 0, len(parts))
		for _, p := range parts {
			ext := strings.ToLower(strings.TrimSpace(p))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if ext != "" {
				exts = append(exts, ext)
			}
		}
		return exts
	}
	if def.FieldType == models.FieldDocument {
		return documentExtensions
	}
	return imageExtensions
}

// ValidateFile checks an upload's size and extension.
func ValidateFile(fh *multipart.FileHeader, maxSizeMB int, allowedExtensions []string) error {
	maxBytes := int64(maxSizeMB) * 1024 * 1024
	if fh.Size > maxBytes {
		return fmt.Errorf("file size cannot exceed %dMB, got %.2fMB", maxSizeMB, float64(fh.Size)/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type %q not supported, allowed: %s", ext, strings.Join(allowedExtensions, ", "))
}

func (s *Storage) save(fh *multipart.FileHeader, subdir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return filepath.Join(subdir, name), nil
}
