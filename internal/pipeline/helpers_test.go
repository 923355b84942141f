package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"ideaforge/internal/llm"
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

var quiet = log.New(io.Discard, "", 0)

func ideaSchema() llmtool.Schema {
	return llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
		{Name: "description", Kind: llmtool.String, Required: true},
		{Name: "notes", Kind: llmtool.String},
	}}
}

func evalSchema() llmtool.Schema {
	return llmtool.Schema{Collection: "evaluations", Fields: []llmtool.Field{
		{Name: "score", Kind: llmtool.Score, Required: true},
		{Name: "pros", Kind: llmtool.String, Required: true},
	}}
}

// twoStep is a generator followed by a scoring evaluator.
func twoStep(cap int) Method {
	return Method{
		ID: "test",
		Steps: []Step{
			{ID: "gen", Role: "Generate ideas.", Schema: ideaSchema()},
			{ID: "eval", Role: "Evaluate ideas.", Schema: evalSchema(), DependsOn: []StepID{"gen"}, Intro: "Evaluate these ideas:"},
		},
		Ideas: IdeaSource{Steps: []StepID{"gen"}, Cap: cap},
		Combine: Combine{
			Score: FieldRef{Step: "eval", Field: "score"},
			Notes: [3][]NotePart{
				{{Label: locale.Notes, Ref: FieldRef{Field: "notes"}, Optional: true}},
				{{Label: locale.Implementation, Ref: FieldRef{Step: "eval", Field: "pros"}}},
			},
		},
	}
}

// fanOut has one generator and two independent evaluators feeding a final scorer.
func fanOut() Method {
	annot := func(label string, step StepID) Annotation {
		return Annotation{Label: label, Ref: FieldRef{Step: step, Field: "pros"}, Fallback: locale.NoAnalysis}
	}
	return Method{
		ID: "fan",
		Steps: []Step{
			{ID: "gen", Role: "Generate ideas.", Schema: ideaSchema()},
			{ID: "a", Role: "Perspective A.", Schema: evalSchema(), DependsOn: []StepID{"gen"}},
			{ID: "b", Role: "Perspective B.", Schema: evalSchema(), DependsOn: []StepID{"gen"}},
			{
				ID: "final", Role: "Summarize.", Schema: evalSchema(),
				DependsOn: []StepID{"gen", "a", "b"},
				Digest:    []Annotation{annot(locale.WhiteHat, "a"), annot(locale.RedHat, "b")},
			},
		},
		Ideas: IdeaSource{Steps: []StepID{"gen"}},
		Combine: Combine{
			Score: FieldRef{Step: "final", Field: "score"},
			Notes: [3][]NotePart{
				{{Label: locale.WhiteHat, Ref: FieldRef{Step: "a", Field: "pros"}}},
				{{Label: locale.RedHat, Ref: FieldRef{Step: "b", Field: "pros"}}},
				{{Label: locale.BlueHat, Ref: FieldRef{Step: "final", Field: "pros"}}},
			},
		},
	}
}

func ideas(titles ...string) string {
	items := make([]map[string]any, 0, len(titles))
	for _, t := range titles {
		items = append(items, map[string]any{"title": t, "description": "about " + t})
	}
	return mustJSON(map[string]any{"reasoning": "r", "ideas": items})
}

type eval struct {
	title string
	score int
}

func evals(es ...eval) string {
	items := make([]map[string]any, 0, len(es))
	for _, e := range es {
		items = append(items, map[string]any{"title": e.title, "score": e.score, "pros": "pros of " + e.title})
	}
	return mustJSON(map[string]any{"reasoning": "r", "evaluations": items})
}

func numberedTitles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Idea %d", i+1)
	}
	return out
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func newExecutor(fake *llm.FakeClient, parallelism int) *Executor {
	return &Executor{Client: fake, Parallelism: parallelism, Logger: quiet}
}
