package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relaybot/pkg/log"
)

type SlackConfig struct {
	BotToken string `env:"SLACK_BOT_TOKEN,required,notEmpty"`
	// Held for request-signature verification; not checked yet.
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
	APIBaseURL    string `env:"SLACK_API_BASE_URL" envDefault:"https://slack.com/api"`
}

func NewSlackConfig(ctx context.Context) *SlackConfig {
	c := &SlackConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Slack config")
	}
	return c
}
