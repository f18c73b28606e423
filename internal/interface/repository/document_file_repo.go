package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
)

// FileDocumentRepository stores the document as a single file with a .bak sibling
type FileDocumentRepository struct {
	path   string
	logger logger.Logger
}

// NewFileDocumentRepository creates a file-backed document repository
func NewFileDocumentRepository(path string, logger logger.Logger) repository.DocumentRepository {
	return &FileDocumentRepository{
		path:   path,
		logger: logger,
	}
}

// Load reads the document file
func (r *FileDocumentRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	return data, nil
}

// Save backs up the previous document and atomically replaces it
func (r *FileDocumentRepository) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if prev, err := os.ReadFile(r.path); err == nil {
		if err := os.WriteFile(r.path+".bak", prev, 0o644); err != nil {
			r.logger.Warn("Failed to write document backup", "path", r.path+".bak", "error", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("Failed to read document for backup", "path", r.path, "error", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}
