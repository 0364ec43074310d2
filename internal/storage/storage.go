package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkStore persists scratch-work images for math submissions and returns
// stable reference paths. The engine stores only the returned references on
// the attempt state, never raw payloads.
type WorkStore struct {
	basePath    string
	maxFileSize int64
}

func NewWorkStore(basePath string, maxFileSize int64) (*WorkStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &WorkStore{basePath: basePath, maxFileSize: maxFileSize}, nil
}

// SaveWorkImages stores the uploaded files keyed by (assignment, problem,
// index) and returns their reference paths relative to the store root.
func (s *WorkStore) SaveWorkImages(assignmentID, problemID uint, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for i, file := range files {
		if file.Size > s.maxFileSize {
			return nil, fmt.Errorf("work image %q exceeds the maximum allowed size", file.Filename)
		}

		ext := filepath.Ext(file.Filename)
		name := fmt.Sprintf("%d-%s%s", i, uuid.New().String(), ext)
		ref := filepath.Join("work", fmt.Sprint(assignmentID), fmt.Sprint(problemID), name)
		fullPath := filepath.Join(s.basePath, ref)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}

		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		dst, err := os.Create(fullPath)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("failed to create work file: %w", err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to write work file: %w", err)
		}

		refs = append(refs, ref)
	}
	return refs, nil
}
