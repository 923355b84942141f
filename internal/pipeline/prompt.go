package pipeline

import (
	"fmt"
	"strings"

	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

func systemPrompt(s Step, pack locale.Pack) (string, error) {
	presets := []llmtool.PromptPreset{llmtool.PresetStrictJSON()}
	if s.DependsOnPrevious() {
		presets = append(presets, llmtool.PresetVerbatimTitles())
	} else {
		presets = append(presets, llmtool.PresetConcrete())
	}
	for _, f := range s.Schema.Fields {
		if f.Kind == llmtool.Score {
			presets = append(presets, llmtool.PresetScored())
			break
		}
	}
	spec := llmtool.StructuredPromptSpec{
		Purpose:    s.Role,
		Background: s.Background,
		Schema:     s.Schema,
		Rules:      s.Rules,
		Language:   pack.Instruction(),
	}
	return llmtool.ApplyPresets(spec, presets...).Render()
}

// digest renders the user instruction of a dependent step: one
// "- {title}: {description}" line per idea, titles verbatim, followed by the
// step's annotation lines for that idea.
func digest(s Step, ideas []Candidate, res *resolver) string {
	var b strings.Builder
	if s.Intro != "" {
		b.WriteString(s.Intro)
		b.WriteString("\n\n")
	}
	for i, c := range ideas {
		if i > 0 && len(s.Digest) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %s\n", c.Title(), c.Description())
		for _, a := range s.Digest {
			text, _ := res.text(a.Ref, c)
			text = strings.TrimSpace(text)
			if text == "" && a.Fallback != "" {
				text = res.pack.Label(a.Fallback)
			}
			fmt.Fprintf(&b, "  %s: %s\n", res.pack.Label(a.Label), text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
