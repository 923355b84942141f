package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// LLMClient is the provider-facing call primitive. prompt carries the system
// instruction; input carries the user instruction (a string, or any value that
// is rendered as indented JSON).
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// userContent renders the user-side message for providers.
func userContent(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.RawMessage:
		return string(v)
	}
	in, _ := json.MarshalIndent(input, "", "  ")
	return "[INPUT JSON]\n" + string(in)
}

// checkJSON reports ErrInvalidJSON unless raw is a JSON document.
func checkJSON(txt string) (json.RawMessage, error) {
	txt = strings.TrimSpace(stripFence(txt))
	if txt == "" {
		return nil, ErrInvalidJSON
	}
	raw := json.RawMessage(txt)
	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}

// stripFence removes a ```json fence some models wrap around the payload.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}
