package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
)

// ErrInvalidPayload marks bodies that are empty or not decodable. The
// transport maps it to a 400; everything else that escapes Handle is a
// persistence failure worth a 500.
var ErrInvalidPayload = errors.New("invalid payload")

type Result struct {
	Status    string // "ok" or "ignored"
	Challenge string // set for verification handshakes
}

// Pipeline processes one inbound event start to finish: classify, load
// history, compose, generate, record, dispatch. Strictly sequential.
type Pipeline struct {
	gate           *Gatekeeper
	repo           core.ConversationRepository
	composer       *Composer
	responder      *Responder
	dispatcher     core.Dispatcher
	historyLimit   int
	scopeByChannel bool
}

func New(
	gate *Gatekeeper,
	repo core.ConversationRepository,
	composer *Composer,
	responder *Responder,
	dispatcher core.Dispatcher,
	historyLimit int,
	scopeByChannel bool,
) *Pipeline {
	return &Pipeline{
		gate:           gate,
		repo:           repo,
		composer:       composer,
		responder:      responder,
		dispatcher:     dispatcher,
		historyLimit:   historyLimit,
		scopeByChannel: scopeByChannel,
	}
}

func (p *Pipeline) Handle(ctx context.Context, body []byte) (Result, error) {
	logger := log.FromCtx(ctx)

	d := p.gate.Classify(ctx, body)
	switch d.Kind {
	case DecisionInvalid:
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidPayload, d.Reason)
	case DecisionChallenge:
		return Result{Challenge: d.Challenge}, nil
	case DecisionIgnore:
		logger.Debug().Str("reason", d.Reason).Str("event_id", d.Event.ID).Msg("ignoring event")
		return Result{Status: "ignored"}, nil
	}

	ev := d.Event
	logger.Info().Str("event_id", ev.ID).Str("user", ev.UserID).Str("channel", ev.ChannelID).Msg("processing message")

	scope := core.Scope{UserID: ev.UserID}
	if p.scopeByChannel {
		scope.ChannelID = ev.ChannelID
	}

	history, err := p.repo.Recent(ctx, scope, p.historyLimit)
	if err != nil {
		// History is best effort; a fresh conversation beats no reply.
		logger.Error().Err(err).Msg("failed to load history")
		history = nil
	}

	req := p.composer.Compose(ctx, history, ev.Text)
	reply := p.responder.Respond(ctx, req)

	if err := p.repo.Append(ctx, core.Exchange{
		UserID:      ev.UserID,
		ChannelID:   ev.ChannelID,
		UserInput:   ev.Text,
		BotResponse: reply,
	}); err != nil {
		return Result{}, fmt.Errorf("failed to record exchange: %w", err)
	}

	// Dispatch after the record is durable. Failure here is logged only;
	// the stored exchange stays.
	if err := p.dispatcher.PostMessage(ctx, ev.ChannelID, reply); err != nil {
		logger.Error().Err(err).Str("channel", ev.ChannelID).Msg("failed to dispatch reply")
	}

	return Result{Status: "ok"}, nil
}
