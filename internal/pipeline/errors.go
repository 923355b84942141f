package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMethod = errors.New("unknown method")
	ErrEmptyPrompt   = errors.New("prompt is empty")
)

// ConfigurationError reports an unknown method or an invalid definition.
type ConfigurationError struct {
	Method MethodID
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("pipeline: %v", e.Err)
	}
	return fmt.Sprintf("pipeline: method %q: %v", e.Method, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// PipelineError reports a failed run. Err is the first step failure, usually
// a *llmtool.GenerationError.
type PipelineError struct {
	Method MethodID
	Step   StepID
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline: %s step %s failed: %v", e.Method, e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
