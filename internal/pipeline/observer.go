package pipeline

import (
	"context"
	"time"
)

// Observer receives step lifecycle events. Calls may arrive concurrently from
// independent steps.
type Observer interface {
	StepStarted(method MethodID, step StepID)
	StepFinished(method MethodID, step StepID, items int, elapsed time.Duration, err error)
}

type ctxKeyObserver struct{}

// WithObserver attaches an Observer to runs started with ctx.
func WithObserver(ctx context.Context, obs Observer) context.Context {
	return context.WithValue(ctx, ctxKeyObserver{}, obs)
}

// ObserverFrom returns the observer stored in the context, or nil.
func ObserverFrom(ctx context.Context) Observer {
	if v := ctx.Value(ctxKeyObserver{}); v != nil {
		if o, ok := v.(Observer); ok {
			return o
		}
	}
	return nil
}
