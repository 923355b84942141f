package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ideaforge/internal/gateway/app"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/pipeline/methods"
)

var runFlags struct {
	method      string
	lang        string
	provider    string
	model       string
	parallelism int
	timeout     time.Duration
	report      bool
}

// newClient is swapped in tests.
var newClient = app.NewLLMClient

var runCmd = &cobra.Command{
	Use:   "run [prompt...]",
	Short: "Run a method against a prompt (read from stdin when no args)",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.method, "method", "m", string(pipeline.Brainstorming), "creativity method")
	f.StringVarP(&runFlags.lang, "lang", "l", "en", "response language (en, ru)")
	f.StringVar(&runFlags.provider, "provider", "", "llm provider (gemini, groq, fake); default from LLM_PROVIDER")
	f.StringVar(&runFlags.model, "model", "", "model id; empty uses the provider default")
	f.IntVar(&runFlags.parallelism, "parallelism", 0, "max concurrent model calls; default from PIPELINE_PARALLELISM")
	f.DurationVar(&runFlags.timeout, "timeout", 0, "wall-clock budget for the run; default from GENERATE_TIMEOUT")
	f.BoolVar(&runFlags.report, "report", false, "include join misses in the output")
}

type runOutput struct {
	Method     pipeline.MethodID        `json:"method"`
	Language   string                   `json:"language"`
	Ideas      []pipeline.GeneratedIdea `json:"ideas"`
	ElapsedMS  int64                    `json:"elapsed_ms"`
	JoinMisses []pipeline.JoinMiss      `json:"join_misses,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	registry, err := methods.NewRegistry()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	method := pipeline.MethodID(runFlags.method)
	if !registry.Has(method) {
		return fmt.Errorf("unknown method %q", runFlags.method)
	}

	llmCfg := cfg.LLM
	if runFlags.provider != "" {
		llmCfg.Provider = strings.ToLower(strings.TrimSpace(runFlags.provider))
	}
	if runFlags.model != "" {
		llmCfg.Model = runFlags.model
	}
	parallelism := cfg.Pipeline.Parallelism
	if runFlags.parallelism > 0 {
		parallelism = runFlags.parallelism
	}
	timeout := cfg.Pipeline.GenerateTimeout
	if runFlags.timeout > 0 {
		timeout = runFlags.timeout
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := newClient(ctx, llmCfg)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := pipeline.NewService(registry, &pipeline.Executor{Client: client, Parallelism: parallelism})
	start := time.Now()
	res, err := svc.Run(ctx, prompt, method, runFlags.lang)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	out := runOutput{
		Method:    res.Method,
		Language:  res.Language,
		Ideas:     res.Ideas,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if runFlags.report {
		out.JoinMisses = res.Report.JoinMisses
	}
	return render(cmd.OutOrStdout(), rootFlags.output, out)
}

func readPrompt(stdin io.Reader, args []string) (string, error) {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" && stdin != nil {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		prompt = strings.TrimSpace(string(raw))
	}
	if prompt == "" {
		return "", errors.New("prompt is required (pass it as arguments or on stdin)")
	}
	return prompt, nil
}
