package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovenfresh/shopchat/internal/domain"
)

func TestSQLiteAppendAndHistory(t *testing.T) {
	t.Parallel()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	msgs := []domain.ChatMessage{
		{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "hi"},
		{ShopID: 3, CustomerID: 7, SenderID: 10, Text: "hello"},
		{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "is my order ready?"},
	}
	for _, m := range msgs {
		require.NoError(t, s.Append(ctx, m))
	}

	history, err := s.History(ctx, 3, 7, 50)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Oldest first, with timestamps assigned by the store.
	require.Equal(t, "hi", history[0].Text)
	require.Equal(t, "is my order ready?", history[2].Text)
	for _, m := range history {
		require.False(t, m.CreatedAt.IsZero())
	}
}

func TestSQLiteHistoryLimit(t *testing.T) {
	t.Parallel()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "m"}))
	}

	history, err := s.History(ctx, 3, 7, 4)
	require.NoError(t, err)
	require.Len(t, history, 4)
}

func TestSQLiteConversationsIsolated(t *testing.T) {
	t.Parallel()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "for shop 3"}))
	require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 5, CustomerID: 7, SenderID: 7, Text: "for shop 5"}))
	require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 3, CustomerID: 8, SenderID: 8, Text: "other customer"}))

	history, err := s.History(ctx, 3, 7, 50)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "for shop 3", history[0].Text)
}

func TestSQLiteEmptyHistory(t *testing.T) {
	t.Parallel()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	history, err := s.History(context.Background(), 3, 7, 50)
	require.NoError(t, err)
	require.Empty(t, history)
}
