package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
)

// NewGenerator creates the appropriate backend based on configuration.
func NewGenerator(ctx context.Context, cfg *config.AppConfig) (core.Generator, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.LLMProvider).
		Msg("starting generation backend")

	switch cfg.LLMProvider {
	case "huggingface":
		hf := config.NewHuggingFaceConfig(ctx)
		return NewHuggingFace(hf.ModelURL, hf.Token), nil
	case "openai":
		oa := config.NewOpenAIConfig(ctx)
		return NewOpenAI(oa.APIKey, oa.Model), nil
	case "ollama":
		ol := config.NewOllamaConfig(ctx)
		return NewOllama(ol.BaseURL, ol.APIKey, ol.Model), nil
	case "custom":
		cu := config.NewCustomOpenAIConfig(ctx)
		return NewCustomOpenAI(cu.BaseURL, cu.APIKey, cu.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
