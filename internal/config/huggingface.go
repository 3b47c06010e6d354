package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relaybot/pkg/log"
)

type HuggingFaceConfig struct {
	ModelURL string `env:"HUGGINGFACE_MODEL_URL,required,notEmpty"`
	Token    string `env:"HUGGINGFACE_TOKEN"`
}

func NewHuggingFaceConfig(ctx context.Context) *HuggingFaceConfig {
	c := &HuggingFaceConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HuggingFace config")
	}
	return c
}
