package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ideaforge/internal/gateway/handler"
	"ideaforge/internal/gateway/handler/rpc"
	"ideaforge/internal/gateway/middleware"
	"ideaforge/internal/gateway/repository/idea"
	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/pipeline/methods"
)

var quiet = log.New(io.Discard, "", 0)

type testEnv struct {
	fake   *llm.FakeClient
	srv    *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T, daily int) *testEnv {
	t.Helper()
	reg, err := methods.NewRegistry()
	require.NoError(t, err)
	fake := llm.NewFakeClient()
	engine := pipeline.NewService(reg, &pipeline.Executor{Client: fake, Logger: quiet})
	ledger, err := credits.NewLedger(daily, 0)
	require.NoError(t, err)
	gen := generation.New(engine, ledger, generation.WithLogger(quiet))

	mux := NewMux(Handlers{
		Generate: handler.NewGenerateHandler(gen),
		Ideas:    handler.NewIdeaHandler(idea.NewCachedStore(idea.NewMemoryStore(), idea.DefaultCacheConfig()), reg),
		RPC:      rpc.NewIdeaHandler(gen),
	}, middleware.Auth(nil, false))
	srv := httptest.NewServer(New(":0", mux).Handler())
	t.Cleanup(srv.Close)
	return &testEnv{fake: fake, srv: srv, client: newGuestClient(t)}
}

// newGuestClient returns a client that keeps its guest session cookie.
func newGuestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(url)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := e.client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func mindMapResponse(titles ...string) string {
	items := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		items = append(items, map[string]any{
			"title":          title,
			"description":    "about " + title,
			"score":          10 - i,
			"centralConcept": "core",
			"branches":       []string{"one", "two"},
			"connections":    "links",
			"insights":       "insight",
			"applications":   "apps",
		})
	}
	b, _ := json.Marshal(map[string]any{"reasoning": "r", "ideas": items})
	return string(b)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
