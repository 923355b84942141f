package llmtool

import (
	"fmt"
	"strings"
)

// PromptField describes a single output field in the rendered contract.
type PromptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// StructuredPromptSpec defines the sections of a system instruction.
type StructuredPromptSpec struct {
	Purpose     string
	Background  string
	Schema      Schema
	Constraints []string
	Rules       []string
	Language    string
}

// Render builds the system instruction for one step. Sections with an empty
// body are omitted.
func (spec StructuredPromptSpec) Render() (string, error) {
	if strings.TrimSpace(spec.Purpose) == "" {
		return "", fmt.Errorf("llmtool: purpose is empty")
	}
	if err := spec.Schema.Validate(); err != nil {
		return "", err
	}

	sections := [...]struct{ title, body string }{
		{"PURPOSE", spec.Purpose},
		{"BACKGROUND", spec.Background},
		{"OUTPUT", fieldLines(spec.Schema.promptFields())},
		{"CONSTRAINTS", bullets(spec.Constraints)},
		{"RULES", bullets(spec.Rules)},
		{"OUTPUT_FORMAT", spec.Schema.skeleton()},
		{"LANGUAGE", spec.Language},
	}
	var b strings.Builder
	for _, s := range sections {
		body := strings.TrimRight(s.body, "\n")
		if strings.TrimSpace(body) == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n%s\n\n", s.title, body)
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

func fieldLines(fields []PromptField) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		line := fmt.Sprintf("%s (%s, %s)", name, f.Type, req)
		if f.Description != "" {
			line += ": " + f.Description
		}
		lines = append(lines, line)
	}
	return bullets(lines)
}

func bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			b.WriteString("- " + item + "\n")
		}
	}
	return b.String()
}
