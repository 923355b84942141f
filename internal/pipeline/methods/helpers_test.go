package methods

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"ideaforge/internal/llm"
	"ideaforge/internal/llmtool"
	"ideaforge/internal/pipeline"
)

func newService(t interface{ Fatalf(string, ...any) }, fake *llm.FakeClient, parallelism int) *pipeline.Service {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return pipeline.NewService(reg, &pipeline.Executor{
		Client:      fake,
		Parallelism: parallelism,
		Logger:      log.New(io.Discard, "", 0),
	})
}

// fill returns a valid response for schema with one record per title.
// Scores follow scoreOf; other fields get deterministic text.
func fill(schema llmtool.Schema, titles []string, scoreOf func(i int, title string) int) string {
	items := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		item := map[string]any{"title": title}
		for _, f := range schema.Fields {
			switch f.Kind {
			case llmtool.Score:
				item[f.Name] = scoreOf(i, title)
			case llmtool.StringList:
				item[f.Name] = []string{f.Name + " one", f.Name + " two"}
			default:
				if f.Name == pipeline.DescriptionField {
					item[f.Name] = "about " + title
				} else {
					item[f.Name] = f.Name + " of " + title
				}
			}
		}
		items = append(items, item)
	}
	b, err := json.Marshal(map[string]any{"reasoning": "because", schema.Collection: items})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func rotating(i int, _ string) int { return i%10 + 1 }

// script makes every step of m answer validly. Source steps produce perSource
// ideas each; dependent steps rate every produced title.
func script(fake *llm.FakeClient, m pipeline.Method, perSource int, scoreOf func(int, string) int) []string {
	var all []string
	for _, id := range m.Ideas.Steps {
		s, _ := m.Step(id)
		titles := make([]string, perSource)
		for i := range titles {
			titles[i] = fmt.Sprintf("%s idea %d", id, i+1)
		}
		all = append(all, titles...)
		fake.Respond(string(id), fill(s.Schema, titles, scoreOf))
	}
	for _, s := range m.Steps {
		if s.DependsOnPrevious() {
			fake.Respond(string(s.ID), fill(s.Schema, all, scoreOf))
		}
	}
	return all
}
