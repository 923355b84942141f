package pipeline

import (
	"fmt"
	"strings"

	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

// JoinMiss records an idea with no same-titled record in a referenced step.
type JoinMiss struct {
	Title string `json:"title"`
	Step  StepID `json:"step"`
}

// Report carries data-quality findings from a merge.
type Report struct {
	JoinMisses []JoinMiss
}

// Merge joins step outputs onto the idea list by exact title. The result has
// the same length and order as ideas. A missing join never fails: the score
// falls back to DefaultScore and note text to "".
func Merge(m *Method, ideas []Candidate, outputs map[StepID]llmtool.Output, pack locale.Pack) ([]GeneratedIdea, Report) {
	res := newResolver(m, pack, outputs)
	refs := combineSteps(m)

	var rep Report
	merged := make([]GeneratedIdea, 0, len(ideas))
	for _, c := range ideas {
		for _, id := range refs {
			if _, ok := res.index[id][c.Title()]; !ok {
				rep.JoinMisses = append(rep.JoinMisses, JoinMiss{Title: c.Title(), Step: id})
			}
		}

		g := GeneratedIdea{
			Title:       c.Title(),
			Description: c.Description(),
			Score:       scoreFor(m.Combine.Score, c, res),
		}
		var notes [3]*string
		for i, parts := range m.Combine.Notes {
			notes[i] = renderNote(parts, c, res)
		}
		g.NoteA, g.NoteB, g.NoteC = notes[0], notes[1], notes[2]
		merged = append(merged, g)
	}
	return merged, rep
}

func scoreFor(ref FieldRef, c Candidate, res *resolver) int {
	if ref.IsZero() {
		return DefaultScore
	}
	rec, ok := res.record(ref, c)
	if !ok {
		return DefaultScore
	}
	if v, ok := rec.Score(ref.Field); ok && v >= llmtool.MinScore && v <= llmtool.MaxScore {
		return v
	}
	return DefaultScore
}

func renderNote(parts []NotePart, c Candidate, res *resolver) *string {
	var rendered []string
	for _, p := range parts {
		var text string
		if p.Numbered {
			if rec, ok := res.record(p.Ref, c); ok {
				text = numbered(rec.List(p.Ref.Field))
			}
		} else {
			text, _ = res.text(p.Ref, c)
			text = strings.TrimSpace(text)
		}

		switch {
		case text == "" && (p.Optional || p.Label == ""):
			continue
		case p.Label == "":
			rendered = append(rendered, text)
		case text == "":
			rendered = append(rendered, res.pack.Label(p.Label)+":")
		case p.Numbered:
			rendered = append(rendered, res.pack.Label(p.Label)+":\n"+text)
		default:
			rendered = append(rendered, res.pack.Label(p.Label)+": "+text)
		}
	}
	if len(rendered) == 0 {
		return nil
	}
	note := strings.Join(rendered, "\n\n")
	return &note
}

func numbered(items []string) string {
	var b strings.Builder
	n := 0
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", n, it)
	}
	return b.String()
}

// combineSteps lists the non-source steps the combine table reads, in
// declaration order.
func combineSteps(m *Method) []StepID {
	used := map[StepID]bool{}
	if !m.Combine.Score.IsZero() && m.Combine.Score.Step != SourceStep {
		used[m.Combine.Score.Step] = true
	}
	for _, slot := range m.Combine.Notes {
		for _, p := range slot {
			if p.Ref.Step != SourceStep {
				used[p.Ref.Step] = true
			}
		}
	}
	var out []StepID
	for _, s := range m.Steps {
		if used[s.ID] && !m.isSource(s.ID) {
			out = append(out, s.ID)
		}
	}
	return out
}
