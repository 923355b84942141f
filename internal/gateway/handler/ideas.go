package handler

import (
	"net/http"
	"strings"

	"ideaforge/internal/gateway/middleware"
	"ideaforge/internal/gateway/repository/idea"
	"ideaforge/internal/pipeline"
)

type IdeaHandler struct {
	store    idea.Store
	registry *pipeline.Registry
}

func NewIdeaHandler(store idea.Store, registry *pipeline.Registry) *IdeaHandler {
	return &IdeaHandler{store: store, registry: registry}
}

type saveIdeaRequest struct {
	Method string `json:"method"`
	pipeline.GeneratedIdea
}

// HandleCreate serves POST /api/ideas.
func (h *IdeaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in saveIdeaRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	method := pipeline.MethodID(strings.TrimSpace(in.Method))
	if !h.registry.Has(method) {
		badRequest(w, "unknown method: "+string(method))
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		badRequest(w, "title is required")
		return
	}
	u, _ := middleware.UserFrom(r.Context())
	saved, err := h.store.Save(r.Context(), idea.FromGenerated(u.ID, method, in.GeneratedIdea))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"idea": saved})
}

// HandleList serves GET /api/ideas, newest first.
func (h *IdeaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	list, err := h.store.List(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": list})
}

// HandleGet serves GET /api/ideas/{id}.
func (h *IdeaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	it, err := h.store.Get(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"idea": it})
}

// HandleDelete serves DELETE /api/ideas/{id}.
func (h *IdeaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	if err := h.store.Delete(r.Context(), u.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
