package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// FakeCall records one request that reached a FakeClient.
type FakeCall struct {
	Phase  string
	Prompt string
	Input  any
}

// FakeClient returns scripted JSON payloads per phase for tests.
// A phase with no script answers with an empty JSON object, which no step
// schema accepts.
type FakeClient struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	errs      map[string]error
	calls     []FakeCall
	gate      map[string]chan struct{}
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		responses: map[string]json.RawMessage{},
		errs:      map[string]error{},
		gate:      map[string]chan struct{}{},
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Respond scripts the payload returned for phase. v may be raw JSON bytes, a
// string of JSON, or any value that is marshaled.
func (f *FakeClient) Respond(phase string, v any) *FakeClient {
	var raw json.RawMessage
	switch t := v.(type) {
	case json.RawMessage:
		raw = t
	case []byte:
		raw = t
	case string:
		raw = json.RawMessage(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("llm: fake response for %s: %v", phase, err))
		}
		raw = b
	}
	f.mu.Lock()
	f.responses[phase] = raw
	f.mu.Unlock()
	return f
}

// Fail scripts an error for phase.
func (f *FakeClient) Fail(phase string, err error) *FakeClient {
	f.mu.Lock()
	f.errs[phase] = err
	f.mu.Unlock()
	return f
}

// Block makes calls for phase wait until the returned release func is called
// or the request context ends.
func (f *FakeClient) Block(phase string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gate[phase] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Phase: phase, Prompt: prompt, Input: input})
	gate := f.gate[phase]
	raw, hasRaw := f.responses[phase]
	err := f.errs[phase]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !hasRaw {
		return json.RawMessage(`{}`), nil
	}
	return raw, nil
}

// Calls returns a snapshot of recorded requests in arrival order.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallsFor returns recorded requests for one phase.
func (f *FakeClient) CallsFor(phase string) []FakeCall {
	var out []FakeCall
	for _, c := range f.Calls() {
		if c.Phase == phase {
			out = append(out, c)
		}
	}
	return out
}
