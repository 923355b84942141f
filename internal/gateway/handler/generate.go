package handler

import (
	"net/http"

	"ideaforge/internal/gateway/middleware"
	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/pipeline"
)

type GenerateHandler struct {
	svc *generation.Service
}

func NewGenerateHandler(svc *generation.Service) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Method   string `json:"method"`
	Language string `json:"language"`
}

func (in generateRequest) toRequest(r *http.Request) generation.Request {
	u, _ := middleware.UserFrom(r.Context())
	return generation.Request{
		UserID:   u.ID,
		Prompt:   in.Prompt,
		Method:   pipeline.MethodID(in.Method),
		Language: in.Language,
	}
}

// HandleGenerate serves POST /api/generate.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	resp, err := h.svc.Generate(r.Context(), in.toRequest(r), nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMethods serves GET /api/methods.
func (h *GenerateHandler) HandleMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"methods": h.svc.Methods()})
}

// HandleMe serves GET /api/user/me.
func (h *GenerateHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         u,
		"display_name": u.DisplayName(),
		"credits":      h.svc.Balance(u.ID),
	})
}
