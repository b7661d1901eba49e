// Package database implements the durable cache tier: a single-table document
// store keyed by cache key, holding an opaque JSON payload and an explicit
// expiry timestamp. The store does not expire documents natively; callers
// compare ExpiryTime against the clock and delete stale documents themselves.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by GetDocument when no document exists for the key.
var ErrNotFound = errors.New("document not found")

type DB struct {
	*sql.DB
	driver string
}

// Document is a durable cache entry. ExpiryTime is a unix timestamp in
// seconds; a document whose ExpiryTime has passed is stale and should be
// treated as absent.
type Document struct {
	ID             string    `json:"_id"`
	Data           []byte    `json:"data"`
	Classification string    `json:"classification,omitempty"`
	ExpiryTime     int64     `json:"expiry_time"`
	StoredAt       time.Time `json:"stored_at"`
}

// Expired reports whether the document's expiry has passed at the given time.
func (d *Document) Expired(now time.Time) bool {
	return d.ExpiryTime <= now.Unix()
}

// Init opens the database with the given driver ("sqlite3" or "pgx") and
// runs migrations.
func Init(driver, dsn string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db, driver: driver}
	if err := dbWrapper.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return dbWrapper, nil
}

func (db *DB) migrate() error {
	storedAtDefault := "CURRENT_TIMESTAMP"
	if db.driver == "pgx" {
		storedAtDefault = "now()"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS cache_documents (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			classification TEXT NOT NULL DEFAULT '',
			expiry_time BIGINT NOT NULL,
			stored_at TIMESTAMP DEFAULT %s
		)`, storedAtDefault),
		`CREATE INDEX IF NOT EXISTS idx_cache_documents_expiry ON cache_documents(expiry_time)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

// rebind converts ?-style placeholders to $N for the pgx driver.
func (db *DB) rebind(query string) string {
	if db.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GetDocument fetches a document by cache key. Returns ErrNotFound when absent.
func (db *DB) GetDocument(ctx context.Context, id string) (*Document, error) {
	query := db.rebind(`SELECT id, data, classification, expiry_time, stored_at
		FROM cache_documents WHERE id = ?`)

	doc := &Document{}
	err := db.QueryRowContext(ctx, query, id).
		Scan(&doc.ID, &doc.Data, &doc.Classification, &doc.ExpiryTime, &doc.StoredAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// UpsertDocument inserts or wholesale-overwrites the document for a key.
// Last write wins; there is no partial update.
func (db *DB) UpsertDocument(ctx context.Context, doc *Document) error {
	query := db.rebind(`INSERT INTO cache_documents (id, data, classification, expiry_time, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			classification = excluded.classification,
			expiry_time = excluded.expiry_time,
			stored_at = excluded.stored_at`)

	storedAt := doc.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}

	if _, err := db.ExecContext(ctx, query, doc.ID, doc.Data, doc.Classification, doc.ExpiryTime, storedAt); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// DeleteDocument removes the document for a key. Deleting an absent key is not an error.
func (db *DB) DeleteDocument(ctx context.Context, id string) error {
	query := db.rebind(`DELETE FROM cache_documents WHERE id = ?`)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DeleteExpired removes every document whose expiry has passed, returning the
// number of rows deleted. Used by the background sweep; the read path also
// deletes expired documents lazily one at a time.
func (db *DB) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := db.rebind(`DELETE FROM cache_documents WHERE expiry_time <= ?`)
	result, err := db.ExecContext(ctx, query, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired documents: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

// CountDocuments returns the number of stored documents.
func (db *DB) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Health verifies the underlying connection.
func (db *DB) Health() error {
	return db.Ping()
}
