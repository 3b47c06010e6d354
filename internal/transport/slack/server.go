package slack

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/service/pipeline"
	"github.com/sandevgo/relaybot/pkg/log"
)

// Server receives Slack Events API callbacks and hands them to the pipeline.
type Server struct {
	srv *http.Server
}

func NewServer(ctx context.Context, cfg *config.AppConfig, p *pipeline.Pipeline) *Server {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Requests run under the process context so the logger travels with them.
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		log.FromCtx(ctx).Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		log.FromCtx(ctx).Error().Any("panic", err).Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}))

	router.POST("/slack/events", eventsHandler(p))

	return &Server{
		srv: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: router,
		},
	}
}

func eventsHandler(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		res, err := p.Handle(c.Request.Context(), body)
		switch {
		case errors.Is(err, pipeline.ErrInvalidPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		case res.Challenge != "":
			c.JSON(http.StatusOK, gin.H{"challenge": res.Challenge})
		default:
			c.JSON(http.StatusOK, gin.H{"status": res.Status})
		}
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting webhook server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(sctx)
}
