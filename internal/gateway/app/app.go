package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ideaforge/internal/gateway/config"
	"ideaforge/internal/gateway/handler"
	"ideaforge/internal/gateway/handler/rpc"
	"ideaforge/internal/gateway/middleware"
	"ideaforge/internal/gateway/server"
	"ideaforge/internal/gateway/service/credits"
	"ideaforge/internal/gateway/service/generation"
	"ideaforge/internal/gateway/telegram"
	llmclient "ideaforge/internal/llmClient"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/pipeline/methods"
)

type App struct {
	server *server.Server
	client llmclient.LLMClient
	stores *gatewayStores
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig wires every dependency from cfg.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	client, err := NewLLMClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	registry, err := methods.NewRegistry()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to build method registry: %w", err)
	}
	engine := pipeline.NewService(registry, &pipeline.Executor{
		Client:      client,
		Parallelism: cfg.Pipeline.Parallelism,
	})

	stores, err := initStores(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	ledger, err := credits.NewLedger(cfg.Credits.Daily, credits.DefaultLedgerSize)
	if err != nil {
		_ = client.Close()
		_ = stores.Close()
		return nil, err
	}
	genSvc := generation.New(engine, ledger,
		generation.WithTimeout(cfg.Pipeline.GenerateTimeout),
		generation.WithArchive(stores.archive),
		generation.WithLogger(log.New(log.Writer(), "[generate] ", log.LstdFlags)),
	)

	if cfg.Auth.Required && cfg.Auth.BotToken == "" {
		log.Printf("auth: AUTH_REQUIRED is set without TELEGRAM_BOT_TOKEN; every user-scoped request will be rejected")
	}
	auth := middleware.Auth(telegram.NewValidator(cfg.Auth.BotToken), cfg.Auth.Required)

	mux := server.NewMux(server.Handlers{
		Generate: handler.NewGenerateHandler(genSvc),
		Ideas:    handler.NewIdeaHandler(stores.ideas, registry),
		RPC:      rpc.NewIdeaHandler(genSvc),
	}, auth)
	log.Printf("ideaforge: env=%s llm=%s parallelism=%d timeout=%s",
		cfg.Env, client.Name(), cfg.Pipeline.Parallelism, cfg.Pipeline.GenerateTimeout)

	return &App{
		server: server.New(cfg.Port, mux),
		client: client,
		stores: stores,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return errors.Join(
		a.server.Shutdown(ctx),
		a.client.Close(),
		a.stores.Close(),
	)
}
