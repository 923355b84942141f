// Package generation runs one billed, time-boxed generation for a user.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/gateway/repository/archive"
	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/llm"
	"ideaforge/internal/llmtool"
	"ideaforge/internal/pipeline"
)

// Request is one generation asked for by a user.
type Request struct {
	UserID   entity.UserID
	Prompt   string
	Method   pipeline.MethodID
	Language string
}

// Response carries the ranked ideas plus billing details.
type Response struct {
	ID       string                   `json:"id"`
	Method   pipeline.MethodID        `json:"method"`
	Language string                   `json:"language"`
	Ideas    []pipeline.GeneratedIdea `json:"ideas"`
	Cost     int                      `json:"cost"`
	Balance  credits.Balance          `json:"balance"`
}

// MethodInfo describes a method for the catalog endpoint.
type MethodInfo struct {
	ID          pipeline.MethodID `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Calls       int               `json:"calls"`
	Cost        int               `json:"cost"`
}

type Service struct {
	engine  *pipeline.Service
	ledger  *credits.Ledger
	archive archive.Store
	timeout time.Duration
	logger  *log.Logger
}

type Option func(*Service)

// WithTimeout bounds the wall-clock time of every run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithArchive(store archive.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.archive = store
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(engine *pipeline.Service, ledger *credits.Ledger, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		ledger:  ledger,
		archive: archive.NopStore{},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Methods lists every registered method with its price.
func (s *Service) Methods() []MethodInfo {
	ms := s.engine.Registry().Methods()
	out := make([]MethodInfo, 0, len(ms))
	for _, m := range ms {
		out = append(out, MethodInfo{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Calls:       m.Calls(),
			Cost:        credits.Cost(m),
		})
	}
	return out
}

// Balance reports the caller's credits.
func (s *Service) Balance(userID entity.UserID) credits.Balance {
	return s.ledger.Balance(userID)
}

// Generate validates req, charges its cost, runs the pipeline and archives
// the result. A failed run is refunded. obs may be nil.
func (s *Service) Generate(ctx context.Context, req Request, obs pipeline.Observer) (Response, error) {
	if req.UserID.IsZero() {
		return Response{}, fmt.Errorf("generation: user is required")
	}
	m, err := s.engine.Registry().Get(req.Method)
	if err != nil {
		return Response{}, err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return Response{}, &pipeline.ConfigurationError{Method: req.Method, Err: pipeline.ErrEmptyPrompt}
	}

	cost := credits.Cost(m)
	chargedAt := s.ledger.Now()
	if _, err := s.ledger.Charge(req.UserID, cost); err != nil {
		return Response{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if obs != nil {
		ctx = pipeline.WithObserver(ctx, obs)
	}
	trace := &llm.Trace{}
	ctx = llm.WithTrace(ctx, trace)

	start := time.Now()
	res, err := s.engine.Run(ctx, prompt, req.Method, req.Language)
	elapsed := time.Since(start)
	if err != nil {
		s.ledger.Refund(req.UserID, cost, chargedAt)
		s.logger.Printf("generation %s for %s failed after %s: %v", req.Method, req.UserID, elapsed.Round(time.Millisecond), err)
		return Response{}, err
	}

	id := uuid.NewString()
	rec := archive.Record{
		ID:         id,
		UserID:     req.UserID,
		Method:     res.Method,
		Language:   res.Language,
		Prompt:     prompt,
		Ideas:      res.Ideas,
		JoinMisses: res.Report.JoinMisses,
		Calls:      trace.Calls(),
		ElapsedMS:  elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	// The caller's ctx may be near its deadline; archiving gets its own budget.
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.archive.Put(archiveCtx, rec); err != nil {
		s.logger.Printf("generation %s: archive %s failed: %v", req.Method, id, err)
	}

	s.logger.Printf("generation %s for %s: %d ideas in %s", req.Method, req.UserID, len(res.Ideas), elapsed.Round(time.Millisecond))
	return Response{
		ID:       id,
		Method:   res.Method,
		Language: res.Language,
		Ideas:    res.Ideas,
		Cost:     cost,
		Balance:  s.ledger.Balance(req.UserID),
	}, nil
}

// IsTimeout reports whether err ended a run because its budget ran out.
func IsTimeout(err error) bool {
	var gen *llmtool.GenerationError
	if errors.As(err, &gen) && gen.Kind == llmtool.KindTimeout {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
