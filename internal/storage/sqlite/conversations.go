package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
)

type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

// Append inserts one exchange. created_at is assigned by the database and
// rows are never updated or deleted by the pipeline.
func (r *ConversationsRepo) Append(ctx context.Context, ex core.Exchange) error {
	query := `INSERT INTO conversations (user_id, channel_id, user_input, bot_response) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, ex.UserID, ex.ChannelID, ex.UserInput, ex.BotResponse)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

func (r *ConversationsRepo) Recent(ctx context.Context, scope core.Scope, limit int) ([]core.Exchange, error) {
	// Fetch the LAST 'limit' exchanges by ordering DESC. The id tiebreak
	// keeps same-second inserts in insertion order.
	query := `SELECT id, user_id, channel_id, user_input, bot_response, created_at
	          FROM conversations WHERE user_id = ?`
	args := []any{scope.UserID}
	if scope.ChannelID != "" {
		query += ` AND channel_id = ?`
		args = append(args, scope.ChannelID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []core.Exchange
	for rows.Next() {
		var ex core.Exchange
		var channelID sql.NullString

		if err := rows.Scan(&ex.ID, &ex.UserID, &channelID, &ex.UserInput, &ex.BotResponse, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.ChannelID = channelID.String

		exchanges = append(exchanges, ex)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned exchanges newest first. Reverse them back to
	// chronological order so the composer can render a top-down transcript.
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(exchanges)).Msg("loaded conversation history")
	return exchanges, nil
}
