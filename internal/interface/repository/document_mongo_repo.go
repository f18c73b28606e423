package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentRepository keeps the store document as one Mongo document, with
// the previous generation under "{name}.bak"
type MongoDocumentRepository struct {
	collection *mongo.Collection
	name       string
	logger     logger.Logger
}

// storedDocument keeps the body as text so key order and unicode survive verbatim
type storedDocument struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoDocumentRepository creates a new Mongo document repository
func NewMongoDocumentRepository(db *mongo.Database, collection, name string, logger logger.Logger) repository.DocumentRepository {
	return &MongoDocumentRepository{
		collection: db.Collection(collection),
		name:       name,
		logger:     logger,
	}
}

func (r *MongoDocumentRepository) find(ctx context.Context, id string) (*storedDocument, error) {
	var doc storedDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MongoDocumentRepository) replace(ctx context.Context, id, body string) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": id},
		storedDocument{ID: id, Body: body, UpdatedAt: time.Now()},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Load returns the current document body
func (r *MongoDocumentRepository) Load(ctx context.Context) ([]byte, error) {
	doc, err := r.find(ctx, r.name)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", r.name, err)
	}
	if doc == nil {
		return nil, nil
	}
	return []byte(doc.Body), nil
}

// Save copies the current body to the backup document, then replaces it
func (r *MongoDocumentRepository) Save(ctx context.Context, data []byte) error {
	prev, err := r.find(ctx, r.name)
	switch {
	case err != nil:
		r.logger.Warn("Failed to read document for backup", "name", r.name, "error", err)
	case prev != nil:
		if err := r.replace(ctx, r.name+".bak", prev.Body); err != nil {
			r.logger.Warn("Failed to write document backup", "name", r.name+".bak", "error", err)
		}
	}

	if err := r.replace(ctx, r.name, string(data)); err != nil {
		return fmt.Errorf("failed to replace document %s: %w", r.name, err)
	}
	return nil
}
