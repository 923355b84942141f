package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/gateway/config"
	"ideaforge/internal/gateway/repository/archive"
)

func TestNewWithConfig_FakeProviderInMemory(t *testing.T) {
	cfg := config.FromEnv(func(string) string { return "" })
	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "FakeLLM", a.client.Name())
	assert.Nil(t, a.stores.db)
	assert.IsType(t, archive.NopStore{}, a.stores.archive)
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestNewWithConfig_FakeProviderFailsGeneration(t *testing.T) {
	cfg := config.FromEnv(func(string) string { return "" })
	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		strings.NewReader(`{"prompt":"city parks","method":"mindMapping"}`))
	rec := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "generation_failed", body["code"])
}

func TestNewLLMClient_UnknownProvider(t *testing.T) {
	_, err := NewLLMClient(context.Background(), config.LLMConfig{Provider: "watsonx"})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestChooseArchiveStore_S3WhenComplete(t *testing.T) {
	cfg := config.FromEnv(func(k string) string {
		return map[string]string{
			"ARCHIVE_S3_ENDPOINT":   "minio:9000",
			"ARCHIVE_S3_ACCESS_KEY": "a",
			"ARCHIVE_S3_SECRET_KEY": "s",
		}[k]
	})
	store, err := chooseArchiveStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &archive.S3Store{}, store)
}
