package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Blob stores every collection inside one JSON blob, either purely in
// memory or mirrored to a single file. Each mutating call rewrites the
// whole blob; a single-writer lock serializes writers in-process, which is
// the only concurrency control this adapter offers.
type Blob struct {
	mu       sync.RWMutex
	path     string
	data     map[string][]Record
	notifier *Notifier
}

// OpenBlob opens a blob store backed by the given file. An empty path
// keeps the store in memory only. When no persisted blob exists yet the
// store seeds itself with the fixture dataset so the application is
// explorable without a registration step.
func OpenBlob(path string) (*Blob, error) {
	b := &Blob{
		path:     path,
		notifier: NewNotifier(),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(raw, &b.data); err != nil {
				return nil, fmt.Errorf("failed to parse blob file %s: %w", path, err)
			}
			return b, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read blob file %s: %w", path, err)
		}
	}

	seed, err := seedData()
	if err != nil {
		return nil, fmt.Errorf("failed to build seed data: %w", err)
	}
	b.data = seed

	if err := b.persist(); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the collection in insertion order, optionally filtered.
func (b *Blob) List(_ context.Context, collection string, filter func(Record) bool) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Record
	for _, rec := range b.data[collection] {
		if filter == nil || filter(rec) {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

// Get scans the collection for the record with the given id.
func (b *Blob) Get(_ context.Context, collection, id string) (Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, rec := range b.data[collection] {
		if rec.ID() == id {
			return clone(rec), nil
		}
	}
	return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Insert appends the record, generating a UUID when it carries no id.
func (b *Blob) Insert(_ context.Context, collection string, doc Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec := clone(doc)
	if rec.ID() == "" {
		rec["id"] = uuid.New().String()
	}
	b.data[collection] = append(b.data[collection], rec)

	if err := b.persist(); err != nil {
		return nil, err
	}
	b.notifier.Publish()
	return clone(rec), nil
}

// Update merges the patch into the stored record; patch fields win.
func (b *Blob) Update(_ context.Context, collection, id string, patch Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, rec := range b.data[collection] {
		if rec.ID() != id {
			continue
		}
		merged := clone(rec)
		for k, v := range patch {
			merged[k] = v
		}
		merged["id"] = id
		b.data[collection][i] = merged

		if err := b.persist(); err != nil {
			return nil, err
		}
		b.notifier.Publish()
		return clone(merged), nil
	}
	return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Delete removes the record with the given id.
func (b *Blob) Delete(_ context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, rec := range b.data[collection] {
		if rec.ID() != id {
			continue
		}
		b.data[collection] = append(b.data[collection][:i], b.data[collection][i+1:]...)

		if err := b.persist(); err != nil {
			return err
		}
		b.notifier.Publish()
		return nil
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Subscribe registers a change observer.
func (b *Blob) Subscribe() (<-chan Event, func()) {
	return b.notifier.Subscribe()
}

// persist serializes the entire blob back to disk. Callers hold the write
// lock. The write goes through a temp file and a rename so a crash cannot
// leave a torn blob behind.
func (b *Blob) persist() error {
	if b.path == "" {
		return nil
	}

	raw, err := json.Marshal(b.data)
	if err != nil {
		return fmt.Errorf("failed to serialize blob: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write blob file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("failed to replace blob file: %w", err)
	}
	return nil
}

// clone deep-copies a record so callers never alias store-internal state.
func clone(rec Record) Record {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return Record{}
	}
	return out
}
