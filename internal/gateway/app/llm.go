package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"ideaforge/internal/gateway/config"
	"ideaforge/internal/llm"
	llmclient "ideaforge/internal/llmClient"
)

const retryBaseDelay = 500 * time.Millisecond

// NewLLMClient builds the provider client and wraps it with the transport
// middleware chain. The "fake" provider has no scripted responses: it answers
// every step with an empty object, which fails step validation, so it only
// serves to boot the gateway without API keys. Generation requests against it
// end in generation_failed.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (llmclient.LLMClient, error) {
	var (
		inner llmclient.LLMClient
		err   error
	)
	if cfg.Provider == "fake" {
		log.Printf("llm: fake provider has no scripted responses; every generation will fail")
		inner = llm.NewFakeClient()
	} else {
		inner, err = llmclient.DefaultCatalog().New(ctx, cfg.Provider, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
	}
	return llm.Wrap(inner,
		llm.Traced(),
		llm.WithLogging(nil),
		llm.Retry(cfg.MaxAttempts, retryBaseDelay),
		llm.RateLimit(cfg.RPS, cfg.Burst),
	), nil
}
