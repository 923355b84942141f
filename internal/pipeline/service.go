package pipeline

import (
	"context"
	"log"
	"strings"

	"ideaforge/internal/locale"
)

// Result is the outcome of one generation.
type Result struct {
	Method   MethodID
	Language string
	Ideas    []GeneratedIdea
	Report   Report
}

// Service is the single entry point into the engine.
type Service struct {
	registry *Registry
	exec     *Executor
	logger   *log.Logger
}

func NewService(registry *Registry, exec *Executor) *Service {
	logger := exec.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{registry: registry, exec: exec, logger: logger}
}

// Registry returns the method registry the service dispatches to.
func (s *Service) Registry() *Registry { return s.registry }

// Generate runs method for prompt and returns at most TopN ranked ideas.
func (s *Service) Generate(ctx context.Context, prompt string, method MethodID, language string) ([]GeneratedIdea, error) {
	res, err := s.Run(ctx, prompt, method, language)
	if err != nil {
		return nil, err
	}
	return res.Ideas, nil
}

// Run is Generate plus the merge report.
func (s *Service) Run(ctx context.Context, prompt string, method MethodID, language string) (Result, error) {
	m, err := s.registry.Get(method)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(prompt) == "" {
		return Result{}, &ConfigurationError{Method: method, Err: ErrEmptyPrompt}
	}
	pack := locale.Resolve(language)

	run, err := s.exec.Execute(ctx, m, prompt, pack)
	if err != nil {
		return Result{}, err
	}
	merged, rep := Merge(m, run.Ideas, run.Outputs, pack)
	for _, miss := range rep.JoinMisses {
		s.logger.Printf("pipeline %s: no %s record titled %q; using defaults", method, miss.Step, miss.Title)
	}
	return Result{
		Method:   method,
		Language: pack.Code(),
		Ideas:    Rank(merged),
		Report:   rep,
	}, nil
}
