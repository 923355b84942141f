package methods

import (
	"fmt"

	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
	"ideaforge/internal/pipeline"
)

type technique struct {
	id          pipeline.StepID
	tag         string
	name        string
	description string
	examples    string
}

var techniques = []technique{
	{"substitute", locale.Substitute, "Substitute",
		"Replace parts of a product, service, or process with something else.",
		"using different materials, changing components, replacing team members or technologies"},
	{"combine", locale.Combine, "Combine",
		"Merge elements or ideas together to create something new.",
		"merging products or services, combining functions, integrating technologies"},
	{"adapt", locale.Adapt, "Adapt",
		"Modify something for another purpose or use.",
		"adapting existing products for new markets, adjusting processes for new contexts"},
	{"modify", locale.Modify, "Modify",
		"Change aspects like size, shape, frequency, or other attributes.",
		"increasing or decreasing size, changing color, altering frequency of service"},
	{"putToAnotherUse", locale.PutToAnotherUse, "Put to another use",
		"Find new ways to use existing products or services.",
		"finding new user groups, repurposing products, identifying new applications"},
	{"eliminate", locale.Eliminate, "Eliminate",
		"Remove elements or simplify concepts.",
		"removing features, streamlining processes, reducing complexity"},
	{"reverse", locale.Reverse, "Reverse",
		"Flip aspects or consider opposite approaches.",
		"reversing roles, inverting processes, changing the order of operations"},
}

const implementation pipeline.StepID = "implementation"

// Scamper runs one generator per SCAMPER technique, keeps up to two ideas
// from each (ten overall), and scores them with an implementation evaluator.
func Scamper() pipeline.Method {
	steps := make([]pipeline.Step, 0, len(techniques)+1)
	sources := make([]pipeline.StepID, 0, len(techniques))
	for _, t := range techniques {
		steps = append(steps, pipeline.Step{
			ID: t.id,
			Role: fmt.Sprintf("You are an expert in the %q technique from the SCAMPER method. "+
				"The technique involves: %s Examples include %s. "+
				"Generate exactly 2 creative ideas using only the %q technique; do not use any other SCAMPER technique.",
				t.name, t.description, t.examples, t.name),
			Rules: []string{"Explain in each description how the technique is applied to the prompt."},
			Schema: llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
				description,
				optStr("notes", "What makes the idea especially valuable."),
			}},
			Tag: t.tag,
		})
		sources = append(sources, t.id)
	}
	steps = append(steps, pipeline.Step{
		ID:        implementation,
		Role:      "You are an expert in evaluating the practicality and implementation of innovative ideas. Assess each idea's feasibility, implementation path, and challenges, weighing technical, financial, and practical factors. Prioritize ideas that balance innovation with feasibility.",
		DependsOn: sources,
		Intro:     "Evaluate these SCAMPER-generated ideas:",
		Digest: []pipeline.Annotation{
			{Label: locale.ScamperTechnique, Ref: own(pipeline.TagField)},
		},
		Schema: llmtool.Schema{Collection: "evaluations", Fields: []llmtool.Field{
			score("Feasibility and innovation value, 1-10. Be discriminating."),
			str("implementation", "Concrete steps to realize the idea."),
			str("challenges", "Potential challenges and how to overcome them."),
		}},
	})

	return pipeline.Method{
		ID:          pipeline.Scamper,
		Title:       "SCAMPER",
		Description: "Transform existing ideas using Substitute, Combine, Adapt, Modify, Put to another use, Eliminate, and Reverse.",
		Steps:       steps,
		Ideas:       pipeline.IdeaSource{Steps: sources, PerStep: 2, Cap: 10},
		Combine: pipeline.Combine{
			Score: ref(implementation, "score"),
			Notes: [3][]pipeline.NotePart{
				{
					part(locale.ScamperTechnique, own(pipeline.TagField)),
					{Ref: own("notes"), Optional: true},
				},
				{part(locale.Implementation, ref(implementation, "implementation"))},
				{part(locale.Challenges, ref(implementation, "challenges"))},
			},
		},
	}
}
