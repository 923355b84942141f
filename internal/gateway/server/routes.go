package server

import (
	"net/http"

	"ideaforge/internal/gateway/handler"
	"ideaforge/internal/gateway/handler/rpc"
	"ideaforge/internal/gateway/middleware"
)

type Handlers struct {
	Generate *handler.GenerateHandler
	Ideas    *handler.IdeaHandler
	RPC      *rpc.IdeaHandler
}

// NewMux registers every route. auth wraps the user-scoped ones.
func NewMux(h Handlers, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()
	protect := func(f http.HandlerFunc) http.Handler { return auth(f) }

	// Public
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("GET /api/methods", h.Generate.HandleMethods)

	// Generation
	mux.Handle("POST /api/generate", protect(h.Generate.HandleGenerate))
	mux.Handle("GET /api/generate/stream", protect(h.Generate.HandleGenerateStream))
	mux.Handle("GET /api/user/me", protect(h.Generate.HandleMe))

	// Saved ideas
	mux.Handle("GET /api/ideas", protect(h.Ideas.HandleList))
	mux.Handle("POST /api/ideas", protect(h.Ideas.HandleCreate))
	mux.Handle("GET /api/ideas/{id}", protect(h.Ideas.HandleGet))
	mux.Handle("DELETE /api/ideas/{id}", protect(h.Ideas.HandleDelete))

	// RPC
	path, rpcHandler := rpc.NewIdeaServiceHandler(h.RPC)
	mux.Handle(path, auth(rpcHandler))

	return middleware.CORS(mux)
}
