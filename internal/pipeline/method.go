package pipeline

import "ideaforge/internal/llmtool"

// StepID identifies a step within one method. It also tags the model call.
type StepID string

// SourceStep in a FieldRef means the record the idea itself came from.
const SourceStep StepID = ""

// TagField resolves to the localized tag of the step that produced the idea.
const TagField = "@tag"

// DescriptionField is the field every idea-producing step must declare.
const DescriptionField = "description"

// FieldRef points at one field of the record a step produced for an idea title.
type FieldRef struct {
	Step  StepID
	Field string
}

// IsZero reports an unset reference.
func (r FieldRef) IsZero() bool { return r.Step == "" && r.Field == "" }

// Annotation adds one "Label: text" line under an idea in a dependent step's digest.
type Annotation struct {
	Label    string // locale key
	Ref      FieldRef
	Fallback string // locale key used when the text is empty; empty means ""
}

// Step is one prompted generation call.
type Step struct {
	ID         StepID
	Role       string
	Background string
	Rules      []string
	Schema     llmtool.Schema
	// DependsOn lists steps that must finish first. A step with dependencies
	// receives the idea digest as its user instruction instead of the prompt.
	DependsOn []StepID
	// Intro heads the digest sent to a dependent step.
	Intro  string
	Digest []Annotation
	// Tag is a locale key attached to ideas this step produces.
	Tag string
}

// DependsOnPrevious reports whether the step is built from earlier outputs.
func (s Step) DependsOnPrevious() bool { return len(s.DependsOn) > 0 }

// IdeaSource selects the authoritative idea list: the items of Steps in
// declaration order, at most PerStep from each and Cap overall. Items held
// back by PerStep top the list up when it falls short of Cap. Zero caps are
// unlimited.
type IdeaSource struct {
	Steps   []StepID
	PerStep int
	Cap     int
}

// NotePart renders one "{label}: {text}" fragment of a note slot.
type NotePart struct {
	Label    string // locale key; empty renders the text alone
	Ref      FieldRef
	Optional bool // omit the part when the text is empty
	Numbered bool // render a list field as numbered lines
}

// Combine maps step fields to the final score and note slots.
type Combine struct {
	Score FieldRef
	Notes [3][]NotePart
}

// Method is an immutable pipeline definition.
type Method struct {
	ID          MethodID
	Title       string
	Description string
	Steps       []Step
	Ideas       IdeaSource
	Combine     Combine
}

// Calls is the number of model calls one run makes.
func (m *Method) Calls() int { return len(m.Steps) }

// Step returns the step with id.
func (m *Method) Step(id StepID) (Step, bool) {
	for _, s := range m.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

func (m *Method) isSource(id StepID) bool {
	for _, s := range m.Ideas.Steps {
		if s == id {
			return true
		}
	}
	return false
}
