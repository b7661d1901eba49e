package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := Init("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInit(t *testing.T) {
	t.Run("creates schema", func(t *testing.T) {
		db := setupTestDB(t)
		count, err := db.CountDocuments(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := Init("sqlite3", "/nonexistent/dir/db.sqlite")
		assert.Error(t, err)
	})
}

func TestGetDocument_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertDocument(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	expiry := time.Now().Add(24 * time.Hour).Unix()
	doc := &Document{
		ID:             "abc123",
		Data:           []byte(`{"status":"Cancelled","summary":"gone for good"}`),
		Classification: "Cancelled",
		ExpiryTime:     expiry,
	}

	require.NoError(t, db.UpsertDocument(ctx, doc))

	got, err := db.GetDocument(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)
	assert.JSONEq(t, `{"status":"Cancelled","summary":"gone for good"}`, string(got.Data))
	assert.Equal(t, "Cancelled", got.Classification)
	assert.Equal(t, expiry, got.ExpiryTime)
	assert.False(t, got.StoredAt.IsZero())

	t.Run("overwrite wins", func(t *testing.T) {
		doc.Data = []byte(`{"status":"Concluded"}`)
		doc.Classification = "Concluded"
		require.NoError(t, db.UpsertDocument(ctx, doc))

		got, err := db.GetDocument(ctx, "abc123")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"Concluded"}`, string(got.Data))
		assert.Equal(t, "Concluded", got.Classification)

		count, err := db.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestDeleteDocument(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertDocument(ctx, &Document{
		ID:         "gone",
		Data:       []byte(`{}`),
		ExpiryTime: time.Now().Add(time.Hour).Unix(),
	}))

	require.NoError(t, db.DeleteDocument(ctx, "gone"))

	_, err := db.GetDocument(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, db.DeleteDocument(ctx, "never-existed"))
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.UpsertDocument(ctx, &Document{
		ID: "stale", Data: []byte(`{}`), ExpiryTime: now.Add(-time.Hour).Unix(),
	}))
	require.NoError(t, db.UpsertDocument(ctx, &Document{
		ID: "fresh", Data: []byte(`{}`), ExpiryTime: now.Add(time.Hour).Unix(),
	}))

	deleted, err := db.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = db.GetDocument(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetDocument(ctx, "fresh")
	assert.NoError(t, err)
}

func TestDocument_Expired(t *testing.T) {
	now := time.Now()

	fresh := &Document{ExpiryTime: now.Add(time.Minute).Unix()}
	stale := &Document{ExpiryTime: now.Add(-time.Minute).Unix()}

	assert.False(t, fresh.Expired(now))
	assert.True(t, stale.Expired(now))
}

func TestRebind(t *testing.T) {
	sqlite := &DB{driver: "sqlite3"}
	pg := &DB{driver: "pgx"}

	query := "SELECT * FROM cache_documents WHERE id = ? AND expiry_time <= ?"
	assert.Equal(t, query, sqlite.rebind(query))
	assert.Equal(t, "SELECT * FROM cache_documents WHERE id = $1 AND expiry_time <= $2", pg.rebind(query))
}
