// Package store persists raw corpus payloads so graphs can be rebuilt on
// demand. Only the raw records are stored — built graphs, resolved styles,
// and positions are derived data and always recomputed (or served from
// cache), never persisted.
//
// Backends exist for MongoDB (server deployments) and an in-memory map
// (tests, single-process runs).
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

// Corpus is a stored raw payload with identity and bookkeeping fields.
type Corpus struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Raw       corpus.RawGraph `json:"raw" bson:"raw"`
	NodeCount int             `json:"node_count" bson:"node_count"`
	EdgeCount int             `json:"edge_count" bson:"edge_count"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Info is a corpus summary without the raw payload, for listings.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence interface. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save inserts or replaces a corpus. A missing ID is assigned; the
	// bookkeeping fields are maintained by Save.
	Save(ctx context.Context, c *Corpus) error

	// Get retrieves a corpus by ID. A missing corpus yields a
	// CORPUS_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Corpus, error)

	// List returns summaries of all stored corpora, newest first.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a corpus. A missing corpus yields a CORPUS_NOT_FOUND
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare normalizes a corpus before writing: assigns an ID when missing
// and refreshes the derived fields.
func prepare(c *Corpus) error {
	if c == nil {
		return cgerrors.New(cgerrors.ErrCodeInvalidInput, "corpus must not be nil")
	}
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.NodeCount = len(c.Raw.Nodes)
	c.EdgeCount = len(c.Raw.Edges)

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return nil
}

// notFound builds the standard missing-corpus error.
func notFound(id string) error {
	return cgerrors.New(cgerrors.ErrCodeCorpusNotFound, "corpus %s not found", id)
}
