package llmtool

import (
	"fmt"
	"strings"
)

// Kind is the value type of a record field.
type Kind int

const (
	String Kind = iota
	// Score is an integer rating in [MinScore, MaxScore].
	Score
	StringList
)

const (
	MinScore = 1
	MaxScore = 10
)

// TitleField is the join key every record carries.
const TitleField = "title"

// ReasoningField is the free-text field every response carries next to the collection.
const ReasoningField = "reasoning"

func (k Kind) String() string {
	switch k {
	case Score:
		return "integer 1-10"
	case StringList:
		return "[]string"
	default:
		return "string"
	}
}

// Field describes one record field in a result shape.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
}

// Schema is the result shape of one generation step: a named array of records,
// each with a title plus Fields, and a top-level reasoning string.
type Schema struct {
	Collection string
	Fields     []Field
}

// Validate checks the schema is usable for a request.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Collection) == "" {
		return fmt.Errorf("llmtool: schema collection is empty")
	}
	if s.Collection == ReasoningField {
		return fmt.Errorf("llmtool: schema collection %q is reserved", s.Collection)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("llmtool: schema %s has no fields", s.Collection)
	}
	seen := map[string]bool{TitleField: true}
	for _, f := range s.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("llmtool: schema %s has an unnamed field", s.Collection)
		}
		if seen[name] {
			return fmt.Errorf("llmtool: schema %s declares %q twice", s.Collection, name)
		}
		seen[name] = true
	}
	return nil
}

// Field returns the declared field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// promptFields lists the output contract in prompt order.
func (s Schema) promptFields() []PromptField {
	out := []PromptField{
		{Name: ReasoningField, Type: "string", Required: true, Description: "Brief reasoning behind the answer."},
		{Name: s.Collection, Type: "[]object", Required: true, Description: "Result records, each with the fields below."},
		{Name: s.Collection + "[]." + TitleField, Type: "string", Required: true, Description: "Short unique title."},
	}
	for _, f := range s.Fields {
		out = append(out, PromptField{
			Name:        s.Collection + "[]." + f.Name,
			Type:        f.Kind.String(),
			Required:    f.Required,
			Description: f.Description,
		})
	}
	return out
}

// skeleton renders an example JSON document of the schema's shape.
func (s Schema) skeleton() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n  %q: \"...\",\n  %q: [\n    {\n      %q: \"...\"", ReasoningField, s.Collection, TitleField)
	for _, f := range s.Fields {
		switch f.Kind {
		case Score:
			fmt.Fprintf(&b, ",\n      %q: 7", f.Name)
		case StringList:
			fmt.Fprintf(&b, ",\n      %q: [\"...\"]", f.Name)
		default:
			fmt.Fprintf(&b, ",\n      %q: \"...\"", f.Name)
		}
	}
	b.WriteString("\n    }\n  ]\n}")
	return b.String()
}
