package repository

import "context"

// DocumentRepository loads and saves the whole store document
type DocumentRepository interface {
	// Load returns nil data when no document exists yet
	Load(ctx context.Context) ([]byte, error)
	// Save keeps a single-generation backup of the previous document and replaces it
	Save(ctx context.Context, data []byte) error
}
