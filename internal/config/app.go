package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/relaybot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"RELAY_RUNTIME_PATH" envDefault:".relaybot"`
	ListenAddr  string `env:"RELAY_LISTEN_ADDR" envDefault:":8080"`

	// Allow selecting the generation backend
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"huggingface"`

	// History scoping
	HistoryLimit   int  `env:"HISTORY_LIMIT" envDefault:"5"`
	ScopeByChannel bool `env:"SCOPE_BY_CHANNEL" envDefault:"false"`

	// Reply shaping. A WordLimit of 0 disables the ceiling.
	WordLimit     int    `env:"WORD_LIMIT" envDefault:"200"`
	FallbackReply string `env:"FALLBACK_REPLY" envDefault:"Sorry, I could not come up with an answer right now. Please try again later."`

	// Generation call policy
	GenerateAttempts   int           `env:"GENERATE_ATTEMPTS" envDefault:"3"`
	GenerateRetryDelay time.Duration `env:"GENERATE_RETRY_DELAY" envDefault:"2s"`
	GenerateTimeout    time.Duration `env:"GENERATE_TIMEOUT" envDefault:"60s"`

	// Sampling parameters forwarded to the backend
	MaxNewTokens int     `env:"GEN_MAX_NEW_TOKENS" envDefault:"200"`
	Temperature  float64 `env:"GEN_TEMPERATURE" envDefault:"0.7"`
	TopP         float64 `env:"GEN_TOP_P" envDefault:"0.9"`
	TopK         int     `env:"GEN_TOP_K" envDefault:"0"`

	// Duplicate-event tracking: "memory" or "sqlite"
	DedupBackend string        `env:"DEDUP_BACKEND" envDefault:"memory"`
	DedupTTL     time.Duration `env:"DEDUP_TTL" envDefault:"1h"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "relaybot.db")
}
