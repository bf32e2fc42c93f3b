package handlers

import (
	"context"
	"fmt"
	"time"

	"daybrief/internal/config"
	"daybrief/internal/llm"
)

// newGateway builds the configured generation gateway. Flag values, when
// non-empty, override the configured server URL and model for the local
// backend.
func newGateway(ctx context.Context, cfg *config.Config, serverFlag, modelFlag string) (llm.Gateway, error) {
	switch cfg.AI.Provider {
	case "gemini":
		model := cfg.AI.Gemini.Model
		if modelFlag != "" {
			model = modelFlag
		}
		return llm.NewGeminiClient(ctx, llm.GeminiOptions{
			APIKey: cfg.AI.Gemini.APIKey,
			Model:  model,
		})
	case "local", "":
		opts := llm.LocalOptions{
			ServerURL:   cfg.AI.Local.ServerURL,
			Model:       cfg.AI.Local.Model,
			Temperature: cfg.AI.Local.Temperature,
			MaxTokens:   cfg.AI.Local.MaxTokens,
		}
		if serverFlag != "" {
			opts.ServerURL = serverFlag
		}
		if modelFlag != "" {
			opts.Model = modelFlag
		}
		if cfg.AI.Local.Timeout != "" {
			timeout, err := time.ParseDuration(cfg.AI.Local.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid ai.local.timeout %q: %w", cfg.AI.Local.Timeout, err)
			}
			opts.Timeout = timeout
		}
		return llm.NewLocalClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown ai.provider %q (expected \"local\" or \"gemini\")", cfg.AI.Provider)
	}
}
