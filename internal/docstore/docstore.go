// Package docstore provides generic, schema-less persistence of named
// collections of records. Two adapters implement the same contract: a
// single-blob store (file-backed or in-memory) and a PostgreSQL store with
// per-record atomic operations.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the application.
const (
	Users              = "users"
	Startups           = "startups"
	Offers             = "offers"
	Groups             = "groups"
	Messages           = "messages"
	Candidacies        = "candidacies"
	SavedOffers        = "savedOffers"
	JoinRequests       = "joinRequests"
	StartupConnections = "startupConnections"
	Reports            = "reports"
	Posts              = "posts"
)

// ErrNotFound is returned when a lookup by id finds no record.
var ErrNotFound = errors.New("document not found")

// Record is a loosely-typed document inside a collection.
type Record map[string]any

// Event signals that a mutating store call completed. It carries no
// payload; observers are expected to re-read the state they care about.
type Event struct{}

// Store is the generic CRUD contract shared by all adapters.
type Store interface {
	// List returns every record in the collection, in insertion order,
	// optionally filtered by a client-supplied predicate.
	List(ctx context.Context, collection string, filter func(Record) bool) ([]Record, error)
	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Record, error)
	// Insert appends a record. A fresh id is generated unless the record
	// already carries one; the stored record is returned.
	Insert(ctx context.Context, collection string, doc Record) (Record, error)
	// Update merges the patch into the record with the given id (patch
	// fields win) and returns the merged record, or ErrNotFound.
	Update(ctx context.Context, collection, id string, patch Record) (Record, error)
	// Delete removes the record with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// Subscribe registers a change observer. The returned function
	// unsubscribes it.
	Subscribe() (<-chan Event, func())
}

// Encode converts a typed value into a Record via its JSON form.
func Encode(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return rec, nil
}

// Decode converts a Record into a typed value via its JSON form.
func Decode(rec Record, v any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// ID returns the record's identity field.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}
