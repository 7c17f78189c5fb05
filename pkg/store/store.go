// Package store provides persistence backends for scene documents.
//
// A scene document wraps the canonical serialized scene together with a
// stable string id and bookkeeping timestamps. The Store interface
// supports:
//   - Put/Get/Delete operations
//   - Listing all stored documents
//
// Implementations for different deployments:
//   - memory: In-memory storage for development/testing
//   - file: Directory of JSON files for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable server deployments
//
// # Usage
//
// Create a store:
//
//	// CLI
//	st, err := store.NewFileStore("")  // Uses ~/.config/nodecanvas/scenes/
//
//	// Server
//	st, err := store.NewRedisStore(ctx, store.RedisConfig{
//	    Addr: "localhost:6379",
//	})
//
// Save and load:
//
//	doc := &store.Document{Name: "pipeline", Scene: sceneDoc}
//	if err := st.Put(ctx, doc); err != nil {
//	    return err
//	}
//	loaded, err := st.Get(ctx, doc.ID)
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/scene"
)

// Document is a stored scene with its persistence metadata. The string id
// is store-scoped and independent of the numeric ids inside the scene
// document itself.
type Document struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
	Scene     scene.SceneDoc `json:"scene" bson:"scene"`
}

// Store is the interface for scene document persistence backends.
type Store interface {
	// Put saves a document. A document without an id is assigned a fresh
	// one; an existing id overwrites the stored version.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by id. A missing document yields a
	// NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns all stored documents sorted by name.
	List(ctx context.Context) ([]*Document, error)

	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// prepare validates and stamps a document before it is written. Shared by
// every backend so Put semantics stay uniform.
func prepare(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil document")
	}
	if err := errors.ValidateSceneName(doc.Name); err != nil {
		return err
	}
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
		doc.CreatedAt = now
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	return nil
}

// sortByName orders a listing for stable output across backends.
func sortByName(docs []*Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Name == docs[j].Name {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].Name < docs[j].Name
	})
}
