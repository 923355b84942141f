package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ideaforge/internal/gateway/repository/idea"
	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/pipeline"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Classify maps a service error to an HTTP status, a short code and a
// message safe to show the caller.
func Classify(err error) (int, string, string) {
	var (
		cfgErr  *pipeline.ConfigurationError
		pipeErr *pipeline.PipelineError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, "invalid_argument", cfgErr.Err.Error()
	case errors.Is(err, credits.ErrInsufficient):
		return http.StatusTooManyRequests, "insufficient_credits", err.Error()
	case errors.Is(err, idea.ErrNotFound):
		return http.StatusNotFound, "not_found", "idea not found"
	case generation.IsTimeout(err):
		return http.StatusBadGateway, "timeout", "generation timed out"
	case errors.As(err, &pipeErr):
		return http.StatusBadGateway, "generation_failed", "generation failed, please try again"
	}
	return http.StatusInternalServerError, "internal", "internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := Classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Code: "invalid_argument"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid json body")
		return false
	}
	return true
}
