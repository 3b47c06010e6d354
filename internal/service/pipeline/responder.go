package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
	"github.com/sandevgo/relaybot/pkg/retry"
)

var sentenceTerminators = ".!?"

// Responder wraps the generation backend with the call policy: bounded
// per-attempt timeout, a fixed number of fixed-delay attempts, word-ceiling
// truncation, and a fallback reply instead of an error. The pipeline must
// always have something to send back.
type Responder struct {
	gen       core.Generator
	retrier   *retry.Retrier
	timeout   time.Duration
	wordLimit int
	fallback  string
}

func NewResponder(gen core.Generator, attempts int, delay, timeout time.Duration, wordLimit int, fallback string) *Responder {
	return &Responder{
		gen:       gen,
		retrier:   retry.NewRetrier(retry.NewFixedConfig(attempts, delay)),
		timeout:   timeout,
		wordLimit: wordLimit,
		fallback:  fallback,
	}
}

func (r *Responder) Respond(ctx context.Context, req core.GenRequest) string {
	var out string

	err := r.retrier.Do(ctx, func() error {
		actx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		text, err := r.gen.Generate(actx, req)
		if err != nil {
			if errors.Is(err, core.ErrMalformedResponse) || errors.Is(err, core.ErrMissingCredential) {
				return retry.Permanent(err)
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return core.ErrEmptyCompletion
		}

		out = text
		return nil
	})

	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("generation failed, falling back")
		return r.fallback
	}

	return TruncateWords(out, r.wordLimit)
}

// TruncateWords caps text at limit words. When the truncated span contains a
// sentence terminator the text is trimmed back to the last one to avoid a
// mid-sentence cutoff; otherwise the bare word span is returned. A limit of
// 0 disables the ceiling.
func TruncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if limit <= 0 || len(words) <= limit {
		return strings.TrimSpace(text)
	}

	span := strings.Join(words[:limit], " ")
	if idx := strings.LastIndexAny(span, sentenceTerminators); idx >= 0 {
		return span[:idx+1]
	}
	return span
}
