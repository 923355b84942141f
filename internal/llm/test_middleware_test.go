package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmclient "ideaforge/internal/llmClient"
)

type flakyClient struct {
	failures int
	err      error
	calls    int
}

func (f *flakyClient) Name() string { return "flaky" }
func (f *flakyClient) Close() error { return nil }
func (f *flakyClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	inner := &flakyClient{failures: 2, err: errors.New("503")}
	cli := Retry(3, time.Millisecond)(inner)

	raw, err := cli.GenerateJSON(context.Background(), "p", "u")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, 3, inner.calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	inner := &flakyClient{failures: 5, err: llmclient.NewPermanentError(errors.New("401"))}
	cli := Retry(4, time.Millisecond)(inner)

	_, err := cli.GenerateJSON(context.Background(), "p", "u")
	var pErr *llmclient.PermanentError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, 1, inner.calls)
}

func TestRetry_SingleAttemptIsPassthrough(t *testing.T) {
	inner := &flakyClient{}
	cli := Retry(1, 0)(inner)
	assert.Same(t, llmclient.LLMClient(inner), cli)
}

func TestTraced_RecordsCallsPerStep(t *testing.T) {
	fake := NewFakeClient().Respond("dreamer", `{"ideas":[]}`).Fail("critic", errors.New("boom"))
	cli := Wrap(fake, Traced())
	tr := &Trace{}
	ctx := WithTrace(context.Background(), tr)

	_, err := cli.GenerateJSON(WithPhase(ctx, "dreamer"), "p", "u")
	require.NoError(t, err)
	_, err = cli.GenerateJSON(WithPhase(ctx, "critic"), "p", "u")
	require.Error(t, err)

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "dreamer", calls[0].Step)
	assert.Equal(t, len(`{"ideas":[]}`), calls[0].Bytes)
	assert.Empty(t, calls[0].Error)
	assert.Equal(t, "critic", calls[1].Step)
	assert.Equal(t, "boom", calls[1].Error)
}

func TestTraced_PassThroughWithoutTrace(t *testing.T) {
	fake := NewFakeClient()
	_, err := Wrap(fake, Traced()).GenerateJSON(context.Background(), "p", "u")
	require.NoError(t, err)
	assert.Len(t, fake.Calls(), 1)
	assert.Nil(t, (*Trace)(nil).Calls())
}

func TestWithLogging_WritesPhaseAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	fake := NewFakeClient().Fail("dreamer", errors.New("quota"))
	cli := Wrap(fake, WithLogging(logger))

	_, _ = cli.GenerateJSON(WithPhase(context.Background(), "dreamer"), "sys", "user")
	out := buf.String()
	assert.Contains(t, out, "llm FakeLLM step=dreamer sent=7B")
	assert.Contains(t, out, "err=quota")

	buf.Reset()
	_, err := cli.GenerateJSON(WithPhase(context.Background(), "critic"), "sys", "user")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "step=critic sent=7B recv=2B")
}

func TestWrap_OrderIsLeftToRight(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next llmclient.LLMClient) llmclient.LLMClient {
			return &markClient{next: next, name: name, order: &order}
		}
	}
	cli := Wrap(NewFakeClient(), mark("A"), nil, mark("B"))
	_, err := cli.GenerateJSON(context.Background(), "p", "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order)
}

type markClient struct {
	next  llmclient.LLMClient
	name  string
	order *[]string
}

func (m *markClient) Name() string { return m.next.Name() }
func (m *markClient) Close() error { return m.next.Close() }
func (m *markClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	*m.order = append(*m.order, m.name)
	return m.next.GenerateJSON(ctx, prompt, input)
}

func TestFakeClient_ScriptsAndRecords(t *testing.T) {
	fake := NewFakeClient().Respond("gen", map[string]any{"ideas": []any{}})
	raw, err := fake.GenerateJSON(WithPhase(context.Background(), "gen"), "sys", "topic")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ideas":[]}`, string(raw))

	raw, err = fake.GenerateJSON(WithPhase(context.Background(), "other"), "sys", "x")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	calls := fake.CallsFor("gen")
	require.Len(t, calls, 1)
	assert.Equal(t, "topic", calls[0].Input)
}

func TestFakeClient_BlockHonorsContext(t *testing.T) {
	fake := NewFakeClient()
	release := fake.Block("slow")
	defer release()

	ctx, cancel := context.WithTimeout(WithPhase(context.Background(), "slow"), 20*time.Millisecond)
	defer cancel()
	_, err := fake.GenerateJSON(ctx, "p", "u")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
