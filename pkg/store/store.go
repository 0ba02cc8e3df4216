// Package store persists computed layouts so that the HTTP API can hand out
// an ID and serve the result later.
//
// Two backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [MongoStore]: MongoDB collection for multi-instance deployments
//
// Records expire after their TTL. MongoDB removes them through a TTL index;
// the memory store drops them lazily on Get and in Cleanup.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/pipeline"
)

// ErrNotFound is returned when no unexpired record has the requested ID.
var ErrNotFound = errors.New(errors.ErrCodeLayoutNotFound, "layout not found")

// DefaultTTL is how long a stored layout stays retrievable.
const DefaultTTL = 24 * time.Hour

// Record is a stored layout.
type Record struct {
	ID        string         `json:"id" bson:"_id"`
	Algorithm string         `json:"algorithm" bson:"algorithm"`
	Graph     graph.Document `json:"graph" bson:"graph"`
	Solver    *spring.Result `json:"solver,omitempty" bson:"solver,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time      `json:"expires_at" bson:"expires_at"`
}

// NewRecord wraps a layout in a record with a fresh random ID.
func NewRecord(l pipeline.Layout, ttl time.Duration) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Algorithm: pipeline.Algorithm,
		Graph:     graph.ToDocument(l.Graph),
		Solver:    l.Solver,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the record has outlived its TTL.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// Layout rebuilds the positioned graph.
func (r *Record) Layout() (pipeline.Layout, error) {
	g, err := graph.FromDocument(r.Graph)
	if err != nil {
		return pipeline.Layout{}, err
	}
	return pipeline.Layout{Graph: g, Solver: r.Solver}, nil
}

// Store is the interface for layout storage backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound for unknown or
	// expired IDs.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// ValidateID rejects IDs that cannot have been produced by NewRecord.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout id %q", id)
	}
	return nil
}
