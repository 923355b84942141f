package pipeline

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

// Candidate is one idea from the authoritative list, with the step it came from.
type Candidate struct {
	Record llmtool.Record
	Source StepID
}

func (c Candidate) Title() string       { return c.Record.Title }
func (c Candidate) Description() string { return c.Record.Text(DescriptionField) }

// SelectIdeas builds the capped idea list from the source steps' outputs.
// Each step contributes up to PerStep ideas in the order it returned them;
// when that leaves the list short of Cap, the ideas held back are appended
// step by step until Cap is reached.
func SelectIdeas(m *Method, outputs map[StepID]llmtool.Output) []Candidate {
	var out, rest []Candidate
	for _, id := range m.Ideas.Steps {
		for i, it := range outputs[id].Items {
			c := Candidate{Record: it, Source: id}
			if m.Ideas.PerStep > 0 && i >= m.Ideas.PerStep {
				rest = append(rest, c)
				continue
			}
			out = append(out, c)
		}
	}
	if m.Ideas.Cap <= 0 {
		return out
	}
	if short := m.Ideas.Cap - len(out); short > 0 {
		out = append(out, rest[:min(short, len(rest))]...)
	}
	if len(out) > m.Ideas.Cap {
		out = out[:m.Ideas.Cap]
	}
	return out
}

// resolver looks up FieldRefs for a candidate by exact title.
type resolver struct {
	m     *Method
	pack  locale.Pack
	index map[StepID]map[string]llmtool.Record
}

func newResolver(m *Method, pack locale.Pack, outputs map[StepID]llmtool.Output) *resolver {
	idx := make(map[StepID]map[string]llmtool.Record, len(outputs))
	for id, out := range outputs {
		idx[id] = out.Index()
	}
	return &resolver{m: m, pack: pack, index: idx}
}

// record returns the record ref points at and whether the title joined.
func (r *resolver) record(ref FieldRef, c Candidate) (llmtool.Record, bool) {
	if ref.Step == SourceStep {
		return c.Record, true
	}
	rec, ok := r.index[ref.Step][c.Title()]
	return rec, ok
}

func (r *resolver) text(ref FieldRef, c Candidate) (string, bool) {
	if ref.Step == SourceStep && ref.Field == TagField {
		s, _ := r.m.Step(c.Source)
		if s.Tag == "" {
			return "", true
		}
		return r.pack.Label(s.Tag), true
	}
	rec, ok := r.record(ref, c)
	if !ok {
		return "", false
	}
	return rec.Text(ref.Field), true
}
