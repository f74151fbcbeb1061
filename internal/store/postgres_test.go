package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovenfresh/shopchat/internal/domain"
)

// Runs only when TEST_DATABASE_URL points at a disposable database.
func TestPostgresAppendAndHistory(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewPostgres(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "hi"}))
	require.NoError(t, s.Append(ctx, domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 10, Text: "hello"}))

	history, err := s.History(ctx, 3, 7, 50)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(history), 2)
	require.Equal(t, "hello", history[len(history)-1].Text)
}
