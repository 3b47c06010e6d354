package core

import "context"

type ConversationRepository interface {
	Append(ctx context.Context, ex Exchange) error
	Recent(ctx context.Context, scope Scope, limit int) ([]Exchange, error)
}

// EventDeduper records event identifiers atomically. MarkSeen returns true
// when the identifier was already present, so a caller can reject duplicate
// deliveries before producing any side effect.
type EventDeduper interface {
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}
