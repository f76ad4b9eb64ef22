package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements the Store contract on a single documents table with
// per-record atomic operations, replacing the whole-blob rewrite of the
// Blob adapter. Change notification stays in-process.
type Postgres struct {
	db       *pgxpool.Pool
	notifier *Notifier
}

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		seq BIGSERIAL,
		doc JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	)
`

// OpenPostgres connects to the database, ensures the documents table
// exists and seeds the fixture dataset when the table is empty.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(ctx, documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	p := &Postgres{db: db, notifier: NewNotifier()}
	if err := p.seedIfEmpty(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.db.Close()
}

// List returns the collection in insertion order, optionally filtered.
func (p *Postgres) List(ctx context.Context, collection string, filter func(Record) bool) ([]Record, error) {
	rows, err := p.db.Query(ctx,
		`SELECT doc FROM documents WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", collection, err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse %s record: %w", collection, err)
		}
		if filter == nil || filter(rec) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return out, nil
}

// Get returns the record with the given id.
func (p *Postgres) Get(ctx context.Context, collection, id string) (Record, error) {
	var raw []byte
	err := p.db.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

// Insert stores the record, generating a UUID when it carries no id.
func (p *Postgres) Insert(ctx context.Context, collection string, doc Record) (Record, error) {
	rec := clone(doc)
	if rec.ID() == "" {
		rec["id"] = uuid.New().String()
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s record: %w", collection, err)
	}
	if _, err := p.db.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
		collection, rec.ID(), raw); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	p.notifier.Publish()
	return rec, nil
}

// Update merges the patch into the stored record inside a transaction so
// concurrent patches to the same record cannot lose each other's fields.
func (p *Postgres) Update(ctx context.Context, collection, id string, patch Record) (Record, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update of %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}

	var merged Record
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("failed to parse %s/%s: %w", collection, id, err)
	}
	for k, v := range patch {
		merged[k] = v
	}
	merged["id"] = id

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s/%s: %w", collection, id, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE documents SET doc = $3 WHERE collection = $1 AND id = $2`,
		collection, id, out); err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update of %s/%s: %w", collection, id, err)
	}

	p.notifier.Publish()
	return merged, nil
}

// Delete removes the record with the given id.
func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	tag, err := p.db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	p.notifier.Publish()
	return nil
}

// Subscribe registers a change observer.
func (p *Postgres) Subscribe() (<-chan Event, func()) {
	return p.notifier.Subscribe()
}

// seedIfEmpty loads the fixture dataset into a fresh documents table.
func (p *Postgres) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed, err := seedData()
	if err != nil {
		return fmt.Errorf("failed to build seed data: %w", err)
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seeding: %w", err)
	}
	defer tx.Rollback(ctx)

	for collection, records := range seed {
		for _, rec := range records {
			raw, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to serialize seed record: %w", err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
				collection, rec.ID(), raw); err != nil {
				return fmt.Errorf("failed to seed %s: %w", collection, err)
			}
		}
	}
	return tx.Commit(ctx)
}
