package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqClient talks to an OpenAI-compatible chat completions endpoint in JSON
// object mode. Groq is the default; any compatible endpoint works.
type GroqClient struct {
	http        *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float32
}

func NewGroqClient(apiKey, model, baseURL string) (*GroqClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("groq: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGroqModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GroqClient{
		http:        &http.Client{Timeout: 60 * time.Second},
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: 0.7,
	}, nil
}

// WithTemperature overrides the sampling temperature (default 0.7).
func (g *GroqClient) WithTemperature(t float32) *GroqClient {
	g.temperature = t
	return g
}

// WithHTTPClient replaces the transport, mainly for tests.
func (g *GroqClient) WithHTTPClient(c *http.Client) *GroqClient {
	if c != nil {
		g.http = c
	}
	return g
}

func (g *GroqClient) Name() string { return "Groq:" + g.model }
func (g *GroqClient) Close() error { return nil }

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// GenerateJSON sends prompt as the system message and input as the user
// message and returns the assistant's JSON object.
func (g *GroqClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: userContent(input)},
		},
		Temperature:    g.temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("groq: decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, ErrInvalidJSON
	}
	return checkJSON(out.Choices[0].Message.Content)
}

// statusError reads a bounded error body. 429 and 5xx stay retryable; every
// other 4xx is permanent.
func statusError(resp *http.Response) error {
	const limit = 2048
	body, _ := io.ReadAll(io.LimitReader(resp.Body, limit))
	err := fmt.Errorf("groq: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}
	return NewPermanentError(err)
}
