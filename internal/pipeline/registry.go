package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

// Registry maps method ids to validated, immutable definitions. It is built
// once and shared read-only across requests.
type Registry struct {
	methods map[MethodID]*Method
	order   []MethodID
}

// NewRegistry validates and stores methods in the given order.
func NewRegistry(methods ...Method) (*Registry, error) {
	r := &Registry{methods: make(map[MethodID]*Method, len(methods))}
	for _, m := range methods {
		if _, dup := r.methods[m.ID]; dup {
			return nil, &ConfigurationError{Method: m.ID, Err: errors.New("registered twice")}
		}
		if err := validate(&m); err != nil {
			return nil, &ConfigurationError{Method: m.ID, Err: err}
		}
		cp := m
		r.methods[m.ID] = &cp
		r.order = append(r.order, m.ID)
	}
	return r, nil
}

// MustRegistry panics on an invalid definition.
func MustRegistry(methods ...Method) *Registry {
	r, err := NewRegistry(methods...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the method for id or a *ConfigurationError wrapping ErrUnknownMethod.
func (r *Registry) Get(id MethodID) (*Method, error) {
	if m, ok := r.methods[id]; ok {
		return m, nil
	}
	return nil, &ConfigurationError{Method: id, Err: ErrUnknownMethod}
}

// Has reports whether id is registered.
func (r *Registry) Has(id MethodID) bool {
	_, ok := r.methods[id]
	return ok
}

// IDs lists registered methods in registration order.
func (r *Registry) IDs() []MethodID {
	return append([]MethodID(nil), r.order...)
}

// Methods lists registered definitions in registration order.
func (r *Registry) Methods() []*Method {
	out := make([]*Method, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.methods[id])
	}
	return out
}

func validate(m *Method) error {
	if strings.TrimSpace(string(m.ID)) == "" {
		return errors.New("method id is empty")
	}
	if len(m.Steps) == 0 {
		return errors.New("no steps")
	}

	// deps[id] is the transitive dependency set of each step. Requiring
	// dependencies to be declared earlier rules out cycles.
	deps := make(map[StepID]map[StepID]bool, len(m.Steps))
	schemas := make(map[StepID]llmtool.Schema, len(m.Steps))
	for _, s := range m.Steps {
		if s.ID == SourceStep {
			return errors.New("step id is empty")
		}
		if _, dup := deps[s.ID]; dup {
			return fmt.Errorf("step %s declared twice", s.ID)
		}
		if strings.TrimSpace(s.Role) == "" {
			return fmt.Errorf("step %s: role is empty", s.ID)
		}
		if err := s.Schema.Validate(); err != nil {
			return fmt.Errorf("step %s: %w", s.ID, err)
		}
		closure := map[StepID]bool{}
		for _, d := range s.DependsOn {
			up, ok := deps[d]
			if !ok {
				return fmt.Errorf("step %s depends on %s, which is not declared before it", s.ID, d)
			}
			closure[d] = true
			for k := range up {
				closure[k] = true
			}
		}
		deps[s.ID] = closure
		schemas[s.ID] = s.Schema
	}

	if len(m.Ideas.Steps) == 0 {
		return errors.New("no idea source steps")
	}
	if m.Ideas.PerStep < 0 || m.Ideas.Cap < 0 {
		return errors.New("negative fan-out cap")
	}
	for _, id := range m.Ideas.Steps {
		s, ok := m.Step(id)
		if !ok {
			return fmt.Errorf("idea source %s is not a step", id)
		}
		if s.DependsOnPrevious() {
			return fmt.Errorf("idea source %s must not depend on other steps", id)
		}
		if f, ok := s.Schema.Field(DescriptionField); !ok || f.Kind != llmtool.String {
			return fmt.Errorf("idea source %s must declare a string %q field", id, DescriptionField)
		}
	}

	checkRef := func(where string, ref FieldRef, scope map[StepID]bool) error {
		if ref.Step == SourceStep {
			if ref.Field == TagField || ref.Field == llmtool.TitleField {
				return nil
			}
			for _, id := range m.Ideas.Steps {
				if _, ok := schemas[id].Field(ref.Field); !ok {
					return fmt.Errorf("%s: idea source %s has no field %q", where, id, ref.Field)
				}
			}
			return nil
		}
		schema, ok := schemas[ref.Step]
		if !ok {
			return fmt.Errorf("%s: unknown step %s", where, ref.Step)
		}
		if scope != nil && !scope[ref.Step] {
			return fmt.Errorf("%s: step %s is not a dependency", where, ref.Step)
		}
		if ref.Field == llmtool.TitleField {
			return nil
		}
		if _, ok := schema.Field(ref.Field); !ok {
			return fmt.Errorf("%s: step %s has no field %q", where, ref.Step, ref.Field)
		}
		return nil
	}

	for _, s := range m.Steps {
		if !s.DependsOnPrevious() {
			if len(s.Digest) > 0 {
				return fmt.Errorf("step %s: digest annotations need dependencies", s.ID)
			}
			continue
		}
		for _, src := range m.Ideas.Steps {
			if !deps[s.ID][src] {
				return fmt.Errorf("step %s must depend on idea source %s", s.ID, src)
			}
		}
		for _, a := range s.Digest {
			if err := checkRef("step "+string(s.ID)+" digest", a.Ref, deps[s.ID]); err != nil {
				return err
			}
		}
	}

	if !m.Combine.Score.IsZero() {
		ref := m.Combine.Score
		if err := checkRef("score", ref, nil); err != nil {
			return err
		}
		if ref.Step == SourceStep {
			for _, id := range m.Ideas.Steps {
				if f, _ := schemas[id].Field(ref.Field); f.Kind != llmtool.Score {
					return fmt.Errorf("score: %s.%s is not a score field", id, ref.Field)
				}
			}
		} else if f, _ := schemas[ref.Step].Field(ref.Field); f.Kind != llmtool.Score {
			return fmt.Errorf("score: %s.%s is not a score field", ref.Step, ref.Field)
		}
	}
	for i, slot := range m.Combine.Notes {
		for _, p := range slot {
			if err := checkRef(fmt.Sprintf("note %d", i), p.Ref, nil); err != nil {
				return err
			}
		}
	}

	pack := locale.Default()
	for _, s := range m.Steps {
		if _, err := systemPrompt(s, pack); err != nil {
			return fmt.Errorf("step %s: %w", s.ID, err)
		}
	}
	return nil
}
