package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
)

type DecisionKind int

const (
	DecisionInvalid DecisionKind = iota
	DecisionChallenge
	DecisionIgnore
	DecisionAccept
)

type Decision struct {
	Kind      DecisionKind
	Challenge string
	Event     core.Event
	Reason    string
}

// eventCallback is the wire shape of a Slack Events API delivery.
type eventCallback struct {
	Challenge string `json:"challenge"`
	EventID   string `json:"event_id"`
	Event     struct {
		Type    string `json:"type"`
		Text    string `json:"text"`
		Channel string `json:"channel"`
		User    string `json:"user"`
		BotID   string `json:"bot_id"`
	} `json:"event"`
}

// Gatekeeper validates and classifies inbound deliveries before the pipeline
// does any work. On acceptance the event id is recorded first, so a retried
// delivery cannot double-process even if a later stage fails.
type Gatekeeper struct {
	dedup core.EventDeduper
}

func NewGatekeeper(dedup core.EventDeduper) *Gatekeeper {
	return &Gatekeeper{dedup: dedup}
}

func (g *Gatekeeper) Classify(ctx context.Context, body []byte) Decision {
	if len(strings.TrimSpace(string(body))) == 0 {
		return Decision{Kind: DecisionInvalid, Reason: "empty body"}
	}

	var cb eventCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return Decision{Kind: DecisionInvalid, Reason: "undecodable body"}
	}

	// URL verification handshake short-circuits everything else.
	if cb.Challenge != "" {
		return Decision{Kind: DecisionChallenge, Challenge: cb.Challenge}
	}

	ev := core.Event{
		ID:        cb.EventID,
		Type:      cb.Event.Type,
		UserID:    cb.Event.User,
		ChannelID: cb.Event.Channel,
		BotID:     cb.Event.BotID,
		Text:      strings.TrimSpace(cb.Event.Text),
	}

	if ev.BotID != "" {
		return Decision{Kind: DecisionIgnore, Event: ev, Reason: "bot message"}
	}
	if ev.Type != "message" {
		return Decision{Kind: DecisionIgnore, Event: ev, Reason: "non-message event"}
	}
	if ev.Text == "" {
		return Decision{Kind: DecisionIgnore, Event: ev, Reason: "empty text"}
	}
	if isSystemMessage(ev.Text) {
		return Decision{Kind: DecisionIgnore, Event: ev, Reason: "system message"}
	}

	seen, err := g.dedup.MarkSeen(ctx, ev.ID)
	if err != nil {
		// A broken dedup store should not take the bot down; prefer
		// answering twice over not answering at all.
		log.FromCtx(ctx).Error().Err(err).Str("event_id", ev.ID).Msg("dedup store failed")
	} else if seen {
		return Decision{Kind: DecisionIgnore, Event: ev, Reason: "duplicate event"}
	}

	return Decision{Kind: DecisionAccept, Event: ev}
}

func isSystemMessage(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "has joined the channel") ||
		strings.Contains(lower, "has left the channel")
}
