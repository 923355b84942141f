package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt spec.
func ApplyPresets(spec StructuredPromptSpec, presets ...PromptPreset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var merged PromptPreset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the schema exactly; no extra fields.",
			"No markdown, comments, or trailing commas.",
		},
	}
}

// PresetVerbatimTitles keeps evaluation records joinable with the ideas they rate.
func PresetVerbatimTitles() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Copy every idea title exactly as given; do not rephrase, translate, or renumber titles.",
			"Return one record per idea in the input and no others.",
		},
	}
}

// PresetScored fixes the scoring scale.
func PresetScored() PromptPreset {
	return PromptPreset{
		Rules: []string{
			"Scores are whole numbers from 1 (weak) to 10 (outstanding).",
			"Use the full range; do not give every idea the same score.",
		},
	}
}

// PresetConcrete discourages vague ideas.
func PresetConcrete() PromptPreset {
	return PromptPreset{
		Rules: []string{
			"Prefer concrete, actionable ideas over generic advice.",
			"Give each idea a distinct, short title.",
		},
	}
}
