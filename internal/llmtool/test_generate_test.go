package llmtool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/llm"
	llmclient "ideaforge/internal/llmClient"
)

func phaseCtx() context.Context { return llm.WithPhase(context.Background(), "gen") }

func TestGenerate_ValidResponse(t *testing.T) {
	fake := llm.NewFakeClient().Respond("gen", `{
		"reasoning": "thought about it",
		"ideas": [
			{"title": " Compost hub ", "description": "Shared composting", "score": 7.6, "tags": ["eco", "ops"]},
			{"title": "Menu sizing", "description": "Smaller plates", "score": "3", "tags": "portion"}
		]
	}`)

	out, err := Generate(phaseCtx(), fake, "system", "reduce food waste", testSchema())
	require.NoError(t, err)
	assert.Equal(t, "thought about it", out.Reasoning)
	require.Len(t, out.Items, 2)

	first := out.Items[0]
	assert.Equal(t, "Compost hub", first.Title)
	score, ok := first.Score("score")
	require.True(t, ok)
	assert.Equal(t, 8, score)
	assert.Equal(t, "eco, ops", first.Text("tags"))
	assert.Equal(t, "8", first.Text("score"))

	second := out.Items[1]
	assert.Equal(t, []string{"portion"}, second.List("tags"))
	score, _ = second.Score("score")
	assert.Equal(t, 3, score)

	calls := fake.CallsFor("gen")
	require.Len(t, calls, 1)
	assert.Equal(t, "system", calls[0].Prompt)
	assert.Equal(t, "reduce food waste", calls[0].Input)
}

func TestGenerate_OptionalFieldMayBeAbsent(t *testing.T) {
	fake := llm.NewFakeClient().Respond("gen", `{"reasoning":"","ideas":[{"title":"A","description":"d","score":5,"tags":null}]}`)
	out, err := Generate(phaseCtx(), fake, "s", "u", testSchema())
	require.NoError(t, err)
	assert.False(t, out.Items[0].Has("tags"))
	assert.Empty(t, out.Items[0].Text("tags"))
}

func TestGenerate_RejectsInvalidOutput(t *testing.T) {
	cases := map[string]string{
		"not an object":        `["a"]`,
		"missing reasoning":    `{"ideas":[]}`,
		"collection not array": `{"reasoning":"","ideas":{"title":"x"}}`,
		"missing title":        `{"reasoning":"","ideas":[{"description":"d","score":5}]}`,
		"blank title":          `{"reasoning":"","ideas":[{"title":"  ","description":"d","score":5}]}`,
		"missing required":     `{"reasoning":"","ideas":[{"title":"A","score":5}]}`,
		"wrong kind":           `{"reasoning":"","ideas":[{"title":"A","description":3,"score":5}]}`,
		"score too high":       `{"reasoning":"","ideas":[{"title":"A","description":"d","score":11}]}`,
		"score too low":        `{"reasoning":"","ideas":[{"title":"A","description":"d","score":0}]}`,
		"one bad item":         `{"reasoning":"","ideas":[{"title":"A","description":"d","score":5},{"title":"B","description":"d","score":"high"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fake := llm.NewFakeClient().Respond("gen", body)
			out, err := Generate(phaseCtx(), fake, "s", "u", testSchema())
			var gErr *GenerationError
			require.ErrorAs(t, err, &gErr)
			assert.Equal(t, KindInvalidOutput, gErr.Kind)
			assert.Empty(t, out.Items)
		})
	}
}

func TestGenerate_ClassifiesClientErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"transport", errors.New("connection reset"), KindTransport},
		{"invalid json", llmclient.ErrInvalidJSON, KindInvalidOutput},
		{"deadline", context.DeadlineExceeded, KindTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := llm.NewFakeClient().Fail("gen", tc.err)
			_, err := Generate(phaseCtx(), fake, "s", "u", testSchema())
			var gErr *GenerationError
			require.ErrorAs(t, err, &gErr)
			assert.Equal(t, tc.want, gErr.Kind)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestGenerate_TimeoutWhileWaiting(t *testing.T) {
	fake := llm.NewFakeClient()
	release := fake.Block("gen")
	defer release()

	ctx, cancel := context.WithTimeout(phaseCtx(), 20*time.Millisecond)
	defer cancel()
	_, err := Generate(ctx, fake, "s", "u", testSchema())
	var gErr *GenerationError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, KindTimeout, gErr.Kind)
}

func TestGenerate_RejectsInvalidRequest(t *testing.T) {
	fake := llm.NewFakeClient()
	for name, call := range map[string]func() error{
		"empty system": func() error { _, err := Generate(phaseCtx(), fake, " ", "u", testSchema()); return err },
		"empty user":   func() error { _, err := Generate(phaseCtx(), fake, "s", "", testSchema()); return err },
		"no schema":    func() error { _, err := Generate(phaseCtx(), fake, "s", "u", Schema{}); return err },
		"nil client":   func() error { _, err := Generate(phaseCtx(), nil, "s", "u", testSchema()); return err },
	} {
		t.Run(name, func(t *testing.T) {
			var gErr *GenerationError
			require.ErrorAs(t, call(), &gErr)
			assert.Equal(t, KindInvalidRequest, gErr.Kind)
		})
	}
	assert.Empty(t, fake.Calls(), "invalid requests must not reach the model")
}

func TestOutput_IndexKeepsFirstTitle(t *testing.T) {
	out := Output{Items: []Record{
		NewRecord("A", map[string]any{"score": 3}),
		NewRecord("A", map[string]any{"score": 9}),
	}}
	idx := out.Index()
	score, _ := idx["A"].Score("score")
	assert.Equal(t, 3, score)
}
