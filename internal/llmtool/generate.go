package llmtool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	llmclient "ideaforge/internal/llmClient"
)

// ErrorKind classifies a failed generation call.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindTransport      ErrorKind = "transport"
	KindInvalidOutput  ErrorKind = "invalid_output"
	KindTimeout        ErrorKind = "timeout"
)

// GenerationError reports one failed model call.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llmtool: %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generate issues one structured call and validates the response against
// schema. It never retries and never caches.
func Generate(ctx context.Context, client llmclient.LLMClient, system, user string, schema Schema) (Output, error) {
	if client == nil {
		return Output{}, &GenerationError{Kind: KindInvalidRequest, Err: errors.New("client is nil")}
	}
	if strings.TrimSpace(system) == "" {
		return Output{}, &GenerationError{Kind: KindInvalidRequest, Err: errors.New("system instruction is empty")}
	}
	if strings.TrimSpace(user) == "" {
		return Output{}, &GenerationError{Kind: KindInvalidRequest, Err: errors.New("user instruction is empty")}
	}
	if err := schema.Validate(); err != nil {
		return Output{}, &GenerationError{Kind: KindInvalidRequest, Err: err}
	}

	raw, err := client.GenerateJSON(ctx, system, user)
	if err != nil {
		return Output{}, &GenerationError{Kind: classify(ctx, err), Err: err}
	}
	out, err := Decode(raw, schema)
	if err != nil {
		return Output{}, &GenerationError{Kind: KindInvalidOutput, Err: err}
	}
	return out, nil
}

func classify(ctx context.Context, err error) ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, llmclient.ErrInvalidJSON):
		return KindInvalidOutput
	default:
		return KindTransport
	}
}
