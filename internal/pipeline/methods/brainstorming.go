package methods

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
	"ideaforge/internal/pipeline"
)

const (
	generator pipeline.StepID = "generator"
	evaluator pipeline.StepID = "evaluator"
)

// Brainstorming generates at least eight ideas, then has an evaluator score
// the first six.
func Brainstorming() pipeline.Method {
	return pipeline.Method{
		ID:          pipeline.Brainstorming,
		Title:       "Brainstorming",
		Description: "Generate numerous ideas without judgment to find innovative solutions.",
		Steps: []pipeline.Step{
			{
				ID:   generator,
				Role: "You are an expert in the brainstorming technique. Generate as many creative and innovative ideas as possible without filtering or judgment; quantity matters more than quality at this stage. Generate at least 8 diverse ideas based on the user's prompt.",
				Schema: llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
					description,
					optStr("notes", "What makes the idea interesting or unique."),
				}},
			},
			{
				ID:        evaluator,
				Role:      "You are an expert in evaluating innovative ideas. Assess each idea on its innovation and potential application areas. Be honest and critical.",
				DependsOn: []pipeline.StepID{generator},
				Intro:     "Evaluate these brainstormed ideas:",
				Schema: llmtool.Schema{Collection: "evaluations", Fields: []llmtool.Field{
					score("Overall quality and innovation, 1-10."),
					str("innovationFactors", "What makes the idea innovative."),
					str("applicationAreas", "Where the idea could be applied."),
				}},
			},
		},
		Ideas: pipeline.IdeaSource{Steps: []pipeline.StepID{generator}, Cap: 6},
		Combine: pipeline.Combine{
			Score: ref(evaluator, "score"),
			Notes: [3][]pipeline.NotePart{
				{{Label: locale.Notes, Ref: own("notes"), Optional: true}},
				{part(locale.ApplicationAreas, ref(evaluator, "applicationAreas"))},
				{part(locale.InnovationFactors, ref(evaluator, "innovationFactors"))},
			},
		},
	}
}
