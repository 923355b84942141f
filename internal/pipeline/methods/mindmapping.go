package methods

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
	"ideaforge/internal/pipeline"
)

const mindMap pipeline.StepID = "mindMap"

// MindMapping is a single step that scores its own ideas.
func MindMapping() pipeline.Method {
	return pipeline.Method{
		ID:          pipeline.MindMapping,
		Title:       "Mind Mapping",
		Description: "Organize ideas around a central concept and discover connections between branches.",
		Steps: []pipeline.Step{{
			ID: mindMap,
			Role: "You are an expert in using Mind Mapping for idea generation and creative problem-solving. " +
				"Mind Mapping organizes information around a central concept, with branches for different aspects and sub-branches for details. " +
				"Generate 5 comprehensive ideas based on the user's prompt, structured as if they emerged from a mind mapping process.",
			Schema: llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
				description,
				score("Overall quality of the idea, 1-10."),
				str("centralConcept", "The core concept of this mind map."),
				list("branches", "3-5 main branches that emerged from the central concept."),
				str("connections", "Connections between branches or concepts."),
				str("insights", "Key insights from the mind mapping process."),
				str("applications", "Practical applications of the idea."),
			}},
		}},
		Ideas: pipeline.IdeaSource{Steps: []pipeline.StepID{mindMap}},
		Combine: pipeline.Combine{
			Score: own("score"),
			Notes: [3][]pipeline.NotePart{
				{part(locale.CentralConcept, own("centralConcept")), part(locale.Insights, own("insights"))},
				{part(locale.Applications, own("applications")), part(locale.Connections, own("connections"))},
				{{Label: locale.MainBranches, Ref: own("branches"), Numbered: true}},
			},
		},
	}
}
