package llmclient

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// ClientFactory builds a provider client for a model id.
type ClientFactory func(ctx context.Context, model string) (LLMClient, error)

// Catalog maps provider names to client factories.
type Catalog struct {
	factories map[string]ClientFactory
}

func NewCatalog() *Catalog {
	return &Catalog{factories: map[string]ClientFactory{}}
}

// DefaultCatalog registers the built-in providers, reading keys from env.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register("gemini", func(ctx context.Context, model string) (LLMClient, error) {
		return NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), model)
	})
	c.Register("groq", func(_ context.Context, model string) (LLMClient, error) {
		return NewGroqClient(os.Getenv("GROQ_API_KEY"), model, os.Getenv("GROQ_BASE_URL"))
	})
	return c
}

func (c *Catalog) Register(provider string, f ClientFactory) {
	c.factories[normalizeProvider(provider)] = f
}

func (c *Catalog) Providers() []string {
	out := make([]string, 0, len(c.factories))
	for k := range c.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New builds a client for provider/model.
func (c *Catalog) New(ctx context.Context, provider, model string) (LLMClient, error) {
	f, ok := c.factories[normalizeProvider(provider)]
	if !ok {
		return nil, fmt.Errorf("llmclient: unknown provider %q (known: %s)", provider, strings.Join(c.Providers(), ", "))
	}
	return f(ctx, model)
}

func normalizeProvider(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
