package cache

import (
	"context"
	"errors"
	"time"

	"show-status/internal/database"
)

// SQLDurableTier adapts the document store to the DurableTier contract.
// Database errors other than a missing row surface as Unavailable.
type SQLDurableTier struct {
	db *database.DB
}

func NewSQLDurableTier(db *database.DB) *SQLDurableTier {
	return &SQLDurableTier{db: db}
}

func (t *SQLDurableTier) Get(ctx context.Context, key string) (*Document, Outcome) {
	doc, err := t.db.GetDocument(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, Miss
	}
	if err != nil {
		return nil, Unavailable
	}

	return &Document{
		Payload:        doc.Data,
		Classification: doc.Classification,
		ExpiresAt:      time.Unix(doc.ExpiryTime, 0),
	}, Hit
}

func (t *SQLDurableTier) Upsert(ctx context.Context, key string, payload []byte, classification string, expiresAt time.Time) error {
	return t.db.UpsertDocument(ctx, &database.Document{
		ID:             key,
		Data:           payload,
		Classification: classification,
		ExpiryTime:     expiresAt.Unix(),
	})
}

func (t *SQLDurableTier) Delete(ctx context.Context, key string) error {
	return t.db.DeleteDocument(ctx, key)
}
