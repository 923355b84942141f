package methods

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
	"ideaforge/internal/pipeline"
)

const (
	dreamer pipeline.StepID = "dreamer"
	realist pipeline.StepID = "realist"
	critic  pipeline.StepID = "critic"
)

// Disney runs a Dreamer, then a Realist and a Critic side by side over the
// Dreamer's first five ideas. The Critic's score ranks the ideas.
func Disney() pipeline.Method {
	return pipeline.Method{
		ID:          pipeline.Disney,
		Title:       "Disney Method",
		Description: "Analyze ideas from three perspectives: Dreamer, Realist, and Critic.",
		Steps: []pipeline.Step{
			{
				ID:   dreamer,
				Role: "You are a creative Dreamer in Walt Disney's method of idea generation. Think big and be imaginative; generate innovative ideas without worrying about practicality. Generate 5-7 creative ideas based on the user's prompt.",
				Schema: llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
					description,
					optStr("notes", "What makes the idea exciting."),
				}},
			},
			{
				ID:        realist,
				Role:      "You are a practical Realist in Walt Disney's method of idea generation. Evaluate each idea from a practical standpoint: resources needed, feasibility, and implementation challenges.",
				DependsOn: []pipeline.StepID{dreamer},
				Intro:     "Evaluate these ideas from a practical perspective:",
				Schema: llmtool.Schema{Collection: "evaluations", Fields: []llmtool.Field{
					{Name: "feasibility", Kind: llmtool.Score, Required: true, Description: "How feasible the idea is, 1-10."},
					str("resources", "Resources the idea needs."),
					str("challenges", "Main implementation challenges."),
					str("notes", "Practical considerations."),
				}},
			},
			{
				ID:        critic,
				Role:      "You are a constructive Critic in Walt Disney's method of idea generation. Identify weaknesses, problems, and risks in each idea, be thorough but constructive, and suggest improvements.",
				DependsOn: []pipeline.StepID{dreamer},
				Intro:     "Critique these ideas and suggest improvements:",
				Schema: llmtool.Schema{Collection: "critiques", Fields: []llmtool.Field{
					score("Overall quality after criticism, 1-10."),
					str("weaknesses", "Weaknesses and risks."),
					str("improvements", "Suggested improvements."),
					str("notes", "Additional remarks."),
				}},
			},
		},
		Ideas: pipeline.IdeaSource{Steps: []pipeline.StepID{dreamer}, Cap: 5},
		Combine: pipeline.Combine{
			Score: ref(critic, "score"),
			Notes: [3][]pipeline.NotePart{
				{
					{Ref: own("notes"), Optional: true},
				},
				{
					part(locale.Feasibility, ref(realist, "feasibility")),
					part(locale.Resources, ref(realist, "resources")),
					part(locale.Challenges, ref(realist, "challenges")),
					{Ref: ref(realist, "notes"), Optional: true},
				},
				{
					part(locale.Weaknesses, ref(critic, "weaknesses")),
					part(locale.Improvements, ref(critic, "improvements")),
					{Ref: ref(critic, "notes"), Optional: true},
				},
			},
		},
	}
}
