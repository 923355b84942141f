package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ideaforge/internal/llm"
	llmclient "ideaforge/internal/llmClient"
	"ideaforge/internal/llmtool"
	"ideaforge/internal/locale"
)

// DefaultParallelism bounds concurrent model calls within one run.
const DefaultParallelism = 4

// Executor runs a method's steps as a dependency graph. Independent steps run
// concurrently up to Parallelism; a dependent step starts after all of its
// dependencies have finished.
type Executor struct {
	Client      llmclient.LLMClient
	Parallelism int
	Logger      *log.Logger
}

// Run is the collected output of one execution.
type Run struct {
	Method  *Method
	Pack    locale.Pack
	Ideas   []Candidate
	Outputs map[StepID]llmtool.Output
}

// Execute runs every step of m. The first failure cancels the remaining steps
// and is returned as a *PipelineError; there is no partial result.
func (e *Executor) Execute(ctx context.Context, m *Method, prompt string, pack locale.Pack) (*Run, error) {
	par := e.Parallelism
	if par <= 0 {
		par = DefaultParallelism
	}
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	obs := ObserverFrom(ctx)

	n := len(m.Steps)
	pos := make(map[StepID]int, n)
	done := make([]chan struct{}, n)
	for i, s := range m.Steps {
		pos[s.ID] = i
		done[i] = make(chan struct{})
	}
	// outs[i] is written once by step i before done[i] is closed.
	outs := make([]llmtool.Output, n)

	collect := func(ids []StepID) map[StepID]llmtool.Output {
		got := make(map[StepID]llmtool.Output, len(ids))
		for _, id := range ids {
			got[id] = outs[pos[id]]
		}
		return got
	}

	var (
		ideasOnce sync.Once
		ideas     []Candidate
	)
	ideaList := func() []Candidate {
		ideasOnce.Do(func() { ideas = SelectIdeas(m, collect(m.Ideas.Steps)) })
		return ideas
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(par)

	// Steps are launched in declaration order and only depend on earlier
	// steps, so a step waiting on its dependencies never blocks them from
	// acquiring a slot.
	for i := range m.Steps {
		step := m.Steps[i]
		g.Go(func() error {
			for _, d := range step.DependsOn {
				select {
				case <-done[pos[d]]:
				case <-gctx.Done():
					return &PipelineError{Method: m.ID, Step: step.ID, Err: gctx.Err()}
				}
			}
			if err := gctx.Err(); err != nil {
				return &PipelineError{Method: m.ID, Step: step.ID, Err: err}
			}

			user := prompt
			if step.DependsOnPrevious() {
				user = digest(step, ideaList(), newResolver(m, pack, collect(dependencyClosure(m, step))))
			}
			system, err := systemPrompt(step, pack)
			if err != nil {
				return &PipelineError{Method: m.ID, Step: step.ID, Err: err}
			}

			if obs != nil {
				obs.StepStarted(m.ID, step.ID)
			}
			start := time.Now()
			out, err := llmtool.Generate(llm.WithPhase(gctx, string(step.ID)), e.Client, system, user, step.Schema)
			elapsed := time.Since(start)
			if obs != nil {
				obs.StepFinished(m.ID, step.ID, len(out.Items), elapsed, err)
			}
			if err != nil {
				logger.Printf("pipeline %s: step %s failed after %s: %v", m.ID, step.ID, elapsed.Round(time.Millisecond), err)
				return &PipelineError{Method: m.ID, Step: step.ID, Err: err}
			}
			logger.Printf("pipeline %s: step %s returned %d items in %s", m.ID, step.ID, len(out.Items), elapsed.Round(time.Millisecond))

			outs[i] = out
			close(done[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make(map[StepID]llmtool.Output, n)
	for i, s := range m.Steps {
		all[s.ID] = outs[i]
	}
	return &Run{Method: m, Pack: pack, Ideas: ideaList(), Outputs: all}, nil
}

// dependencyClosure lists every step s transitively depends on.
func dependencyClosure(m *Method, s Step) []StepID {
	seen := map[StepID]bool{}
	var out []StepID
	var walk func(ids []StepID)
	walk = func(ids []StepID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			if up, ok := m.Step(id); ok {
				walk(up.DependsOn)
			}
		}
	}
	walk(s.DependsOn)
	return out
}
