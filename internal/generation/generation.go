// Package generation holds clients for the optional external
// text-generation service the answering pipeline can delegate to.
package generation

import (
	"context"

	"study-assistant/internal/config"
)

// Generator produces free text for a prompt. Any error means "generation
// unavailable"; callers are expected to degrade, not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New returns the configured generator, or nil when the configuration is
// incomplete (endpoint, credential and model must all be present) and the
// pipeline should stay extractive-only.
func New(cfg *config.GenerationConfig) Generator {
	switch cfg.Provider {
	case "hf":
		if cfg.Endpoint == "" || cfg.Token == "" || cfg.Model == "" {
			return nil
		}
		return newHFClient(cfg)
	case "openai":
		if cfg.Endpoint == "" || cfg.Token == "" || cfg.Model == "" {
			return nil
		}
		return newOpenAIClient(cfg)
	default:
		return nil
	}
}
