// Package methods defines the built-in creativity methods as declarative
// pipelines.
package methods

import (
	"ideaforge/internal/llmtool"
	"ideaforge/internal/pipeline"
)

// NewRegistry validates and registers every built-in method.
func NewRegistry() (*pipeline.Registry, error) {
	return pipeline.NewRegistry(All()...)
}

// All returns fresh copies of the built-in method definitions.
func All() []pipeline.Method {
	return []pipeline.Method{
		Disney(),
		Brainstorming(),
		Scamper(),
		SixHats(),
		MindMapping(),
	}
}

func str(name, desc string) llmtool.Field {
	return llmtool.Field{Name: name, Kind: llmtool.String, Required: true, Description: desc}
}

func optStr(name, desc string) llmtool.Field {
	return llmtool.Field{Name: name, Kind: llmtool.String, Description: desc}
}

func score(desc string) llmtool.Field {
	return llmtool.Field{Name: "score", Kind: llmtool.Score, Required: true, Description: desc}
}

func list(name, desc string) llmtool.Field {
	return llmtool.Field{Name: name, Kind: llmtool.StringList, Required: true, Description: desc}
}

var description = str(pipeline.DescriptionField, "Concise description of the idea.")

// ref points at a field of another step's record with the same title.
func ref(step pipeline.StepID, field string) pipeline.FieldRef {
	return pipeline.FieldRef{Step: step, Field: field}
}

// own points at a field of the record the idea came from.
func own(field string) pipeline.FieldRef {
	return pipeline.FieldRef{Step: pipeline.SourceStep, Field: field}
}

func part(label string, r pipeline.FieldRef) pipeline.NotePart {
	return pipeline.NotePart{Label: label, Ref: r}
}
