package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	llmclient "ideaforge/internal/llmClient"
)

type ctxKeyPhase struct{}
type ctxKeyTrace struct{}

// WithPhase tags the context with the pipeline step issuing the call.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the step tagged by WithPhase, or "unknown".
func PhaseFrom(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyPhase{}).(string); ok && s != "" {
		return s
	}
	return "unknown"
}

// CallStat describes one model call made on behalf of a request.
type CallStat struct {
	Step      string `json:"step"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Bytes     int    `json:"bytes"`
	Error     string `json:"error,omitempty"`
}

// Trace collects CallStats from concurrently running steps.
type Trace struct {
	mu    sync.Mutex
	calls []CallStat
}

func (t *Trace) add(c CallStat) {
	t.mu.Lock()
	t.calls = append(t.calls, c)
	t.mu.Unlock()
}

// Calls returns the recorded calls in completion order.
func (t *Trace) Calls() []CallStat {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]CallStat(nil), t.calls...)
}

// WithTrace attaches t to ctx; calls through a Traced client record into it.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, ctxKeyTrace{}, t)
}

func TraceFrom(ctx context.Context) *Trace {
	t, _ := ctx.Value(ctxKeyTrace{}).(*Trace)
	return t
}

// Traced records every GenerateJSON into the Trace found in the context.
// Without one it passes through.
func Traced() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &traced{next: next}
	}
}

type traced struct{ next llmclient.LLMClient }

func (t *traced) Name() string { return t.next.Name() }
func (t *traced) Close() error { return t.next.Close() }
func (t *traced) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	tr := TraceFrom(ctx)
	if tr == nil {
		return t.next.GenerateJSON(ctx, prompt, input)
	}
	start := time.Now()
	raw, err := t.next.GenerateJSON(ctx, prompt, input)
	stat := CallStat{Step: PhaseFrom(ctx), ElapsedMS: time.Since(start).Milliseconds(), Bytes: len(raw)}
	if err != nil {
		stat.Error = err.Error()
	}
	tr.add(stat)
	return raw, err
}
