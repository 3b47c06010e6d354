package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/internal/providers/llm"
	"github.com/sandevgo/relaybot/internal/service/pipeline"
	"github.com/sandevgo/relaybot/internal/storage/sqlite"
	"github.com/sandevgo/relaybot/internal/transport/slack"
	"github.com/sandevgo/relaybot/pkg/log"
	"github.com/sandevgo/relaybot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	slackCfg := config.NewSlackConfig(ctx)

	// 2. Storage
	db, conversations, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Duplicate-event tracking
	deduper := initDeduper(ctx, appCfg, db)

	// 4. Generation backend
	generator, err := llm.NewGenerator(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generation backend")
	}

	// 5. Event pipeline
	p := pipeline.New(
		pipeline.NewGatekeeper(deduper),
		conversations,
		pipeline.NewComposer(appCfg.WordLimit, core.GenParams{
			MaxNewTokens: appCfg.MaxNewTokens,
			Temperature:  appCfg.Temperature,
			TopP:         appCfg.TopP,
			TopK:         appCfg.TopK,
		}),
		pipeline.NewResponder(
			generator,
			appCfg.GenerateAttempts,
			appCfg.GenerateRetryDelay,
			appCfg.GenerateTimeout,
			appCfg.WordLimit,
			appCfg.FallbackReply,
		),
		slack.NewClient(slackCfg),
		appCfg.HistoryLimit,
		appCfg.ScopeByChannel,
	)

	// 6. Transport
	services = append(services, slack.NewServer(ctx, appCfg, p))

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.ConversationRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewConversationsRepo(db), nil
}

func initDeduper(ctx context.Context, cfg *config.AppConfig, db *sql.DB) core.EventDeduper {
	if cfg.DedupBackend == "sqlite" {
		return sqlite.NewDedupRepo(db, cfg.DedupTTL)
	}
	if cfg.DedupBackend != "memory" {
		log.FromCtx(ctx).Warn().Str("backend", cfg.DedupBackend).Msg("unknown dedup backend, using memory")
	}
	return pipeline.NewMemoryDeduper()
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
