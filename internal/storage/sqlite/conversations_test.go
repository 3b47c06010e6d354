package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *ConversationsRepo {
	t.Helper()
	db, err := NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConversationsRepo(db)
}

func TestRecent_EmptyHistory(t *testing.T) {
	repo := newTestDB(t)

	exchanges, err := repo.Recent(context.Background(), core.Scope{UserID: "U1"}, 5)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestRecent_ReturnsChronologicalOrder(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, core.Exchange{
			UserID:      "U1",
			ChannelID:   "C1",
			UserInput:   fmt.Sprintf("question %d", i),
			BotResponse: fmt.Sprintf("answer %d", i),
		}))
	}

	exchanges, err := repo.Recent(ctx, core.Scope{UserID: "U1"}, 5)
	require.NoError(t, err)
	require.Len(t, exchanges, 3)
	assert.Equal(t, "question 1", exchanges[0].UserInput)
	assert.Equal(t, "question 3", exchanges[2].UserInput)
	for i := 1; i < len(exchanges); i++ {
		assert.False(t, exchanges[i].CreatedAt.Before(exchanges[i-1].CreatedAt))
	}
}

func TestRecent_CapsAtLimitKeepingNewest(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		require.NoError(t, repo.Append(ctx, core.Exchange{
			UserID:      "U1",
			UserInput:   fmt.Sprintf("question %d", i),
			BotResponse: fmt.Sprintf("answer %d", i),
		}))
	}

	exchanges, err := repo.Recent(ctx, core.Scope{UserID: "U1"}, 5)
	require.NoError(t, err)
	require.Len(t, exchanges, 5)
	// The two oldest are dropped; the rest come back oldest first.
	assert.Equal(t, "question 3", exchanges[0].UserInput)
	assert.Equal(t, "question 7", exchanges[4].UserInput)
}

func TestRecent_ScopedByUser(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, core.Exchange{UserID: "U1", UserInput: "mine", BotResponse: "a"}))
	require.NoError(t, repo.Append(ctx, core.Exchange{UserID: "U2", UserInput: "theirs", BotResponse: "b"}))

	exchanges, err := repo.Recent(ctx, core.Scope{UserID: "U1"}, 5)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "mine", exchanges[0].UserInput)
}

func TestRecent_ScopedByChannel(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, core.Exchange{UserID: "U1", ChannelID: "C1", UserInput: "in c1", BotResponse: "a"}))
	require.NoError(t, repo.Append(ctx, core.Exchange{UserID: "U1", ChannelID: "C2", UserInput: "in c2", BotResponse: "b"}))

	exchanges, err := repo.Recent(ctx, core.Scope{UserID: "U1", ChannelID: "C2"}, 5)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "in c2", exchanges[0].UserInput)

	// Without a channel the scope spans both.
	exchanges, err = repo.Recent(ctx, core.Scope{UserID: "U1"}, 5)
	require.NoError(t, err)
	assert.Len(t, exchanges, 2)
}

func TestDedupRepo_MarkSeen(t *testing.T) {
	db, err := NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewDedupRepo(db, time.Hour)
	ctx := context.Background()

	seen, err := repo.MarkSeen(ctx, "E1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = repo.MarkSeen(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.MarkSeen(ctx, "E2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestDedupRepo_ExpiredEntriesForgotten(t *testing.T) {
	db, err := NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewDedupRepo(db, -time.Second) // everything is already expired
	ctx := context.Background()

	_, err = repo.MarkSeen(ctx, "E1")
	require.NoError(t, err)

	seen, err := repo.MarkSeen(ctx, "E1")
	require.NoError(t, err)
	assert.False(t, seen)
}
