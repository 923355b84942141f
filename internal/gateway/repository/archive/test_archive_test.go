package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/pipeline"
)

func TestMemoryStore_RoundTripAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	note := "Notes: n"
	rec := Record{
		ID:        "gen-1",
		UserID:    "tg:7",
		Method:    pipeline.Brainstorming,
		Language:  "en",
		Prompt:    "reduce food waste",
		Ideas:     []pipeline.GeneratedIdea{{Title: "Dynamic menu", Score: 9, NoteA: &note}},
		ElapsedMS: 1200,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Put(ctx, rec))
	require.NoError(t, s.Put(ctx, Record{ID: "gen-0", UserID: "tg:7"}))
	require.NoError(t, s.Put(ctx, Record{ID: "gen-9", UserID: "tg:8"}))

	got, err := s.Get(ctx, "tg:7", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	ids, err := s.List(ctx, "tg:7")
	require.NoError(t, err)
	assert.Equal(t, []string{"gen-0", "gen-1"}, ids)

	_, err = s.Get(ctx, "tg:8", "gen-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsIncompleteRecords(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorContains(t, s.Put(context.Background(), Record{ID: "x"}), "user_id")
	assert.ErrorContains(t, s.Put(context.Background(), Record{UserID: entity.Guest("g1").ID}), "id")
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	require.NoError(t, s.Put(context.Background(), Record{}))
	_, err := s.Get(context.Background(), "u", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.ErrorContains(t, err, "endpoint")
	_, err = NewS3Store(S3Config{Endpoint: "minio:9000"})
	assert.ErrorContains(t, err, "access key")
	_, err = NewS3Store(S3Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket")

	s, err := NewS3Store(S3Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "tg:7/gen-1.json", objectKey("tg:7", " gen-1 "))
}
