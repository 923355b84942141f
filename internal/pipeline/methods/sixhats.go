package methods

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
	"ideaforge/internal/pipeline"
)

const (
	creator   pipeline.StepID = "creator"
	whiteHat  pipeline.StepID = "whiteHat"
	redHat    pipeline.StepID = "redHat"
	blackHat  pipeline.StepID = "blackHat"
	yellowHat pipeline.StepID = "yellowHat"
	greenHat  pipeline.StepID = "greenHat"
	blueHat   pipeline.StepID = "blueHat"
)

type hat struct {
	id    pipeline.StepID
	label string
	field string
	role  string
	intro string
}

var hats = []hat{
	{whiteHat, locale.WhiteHat, "facts",
		"You are the White Hat thinker in the Six Thinking Hats method. Focus purely on facts, data, and information without interpretation: available data, information gaps, and objective observations.",
		"Provide a White Hat analysis (facts and information only) for each of these ideas:"},
	{redHat, locale.RedHat, "emotions",
		"You are the Red Hat thinker in the Six Thinking Hats method. Focus on emotions, feelings, and intuition without justification: emotional reactions, gut responses, and how people might feel about the idea.",
		"Provide a Red Hat analysis (emotions and feelings only) for each of these ideas:"},
	{blackHat, locale.BlackHat, "risks",
		"You are the Black Hat thinker in the Six Thinking Hats method. Identify risks, logical flaws, and obstacles to implementation.",
		"Provide a Black Hat analysis (caution and potential problems) for each of these ideas:"},
	{yellowHat, locale.YellowHat, "benefits",
		"You are the Yellow Hat thinker in the Six Thinking Hats method. Identify benefits, value, and the positive impact each idea could have.",
		"Provide a Yellow Hat analysis (benefits and value) for each of these ideas:"},
	{greenHat, locale.GreenHat, "creativity",
		"You are the Green Hat thinker in the Six Thinking Hats method. Focus on creativity: how each idea could be expanded, creative alternatives, and novel approaches to implementation.",
		"Provide a Green Hat analysis (creative possibilities) for each of these ideas:"},
}

// SixHats generates four ideas, runs the five perspective hats concurrently,
// and lets the Blue hat summarize every perspective and assign the score.
func SixHats() pipeline.Method {
	steps := []pipeline.Step{{
		ID:   creator,
		Role: "You are a creative idea generator. Generate 4 innovative and diverse ideas based on the user's prompt, each with a clear title and a 2-3 sentence description. The ideas will later be analyzed with Edward de Bono's Six Thinking Hats method.",
		Schema: llmtool.Schema{Collection: "ideas", Fields: []llmtool.Field{
			description,
		}},
	}}
	blueDeps := []pipeline.StepID{creator}
	var digest []pipeline.Annotation
	for _, h := range hats {
		steps = append(steps, pipeline.Step{
			ID:        h.id,
			Role:      h.role,
			DependsOn: []pipeline.StepID{creator},
			Intro:     h.intro,
			Schema: llmtool.Schema{Collection: "analyses", Fields: []llmtool.Field{
				str(h.field, "The "+h.field+" perspective on the idea."),
			}},
		})
		blueDeps = append(blueDeps, h.id)
		digest = append(digest, pipeline.Annotation{Label: h.label, Ref: ref(h.id, h.field), Fallback: locale.NoAnalysis})
	}
	steps = append(steps, pipeline.Step{
		ID:        blueHat,
		Role:      "You are the Blue Hat thinker in the Six Thinking Hats method. Provide process control and conclusions: summarize the key points from all perspectives, evaluate each idea's overall potential, and score it.",
		DependsOn: blueDeps,
		Intro:     "Review these ideas and provide a Blue Hat overview. Each idea lists the analyses done so far:",
		Digest:    digest,
		Schema: llmtool.Schema{Collection: "analyses", Fields: []llmtool.Field{
			str("overview", "Summary across all perspectives."),
			score("Overall quality of the idea, 1-10."),
		}},
	})

	return pipeline.Method{
		ID:          pipeline.SixHats,
		Title:       "Six Thinking Hats",
		Description: "Evaluate ideas from multiple perspectives to identify all aspects of a solution.",
		Steps:       steps,
		Ideas:       pipeline.IdeaSource{Steps: []pipeline.StepID{creator}, Cap: 6},
		Combine: pipeline.Combine{
			Score: ref(blueHat, "score"),
			Notes: [3][]pipeline.NotePart{
				{part(locale.YellowHat, ref(yellowHat, "benefits")), part(locale.GreenHat, ref(greenHat, "creativity"))},
				{part(locale.WhiteHat, ref(whiteHat, "facts")), part(locale.BlueHat, ref(blueHat, "overview"))},
				{part(locale.BlackHat, ref(blackHat, "risks")), part(locale.RedHat, ref(redHat, "emotions"))},
			},
		},
	}
}
