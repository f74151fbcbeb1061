package store

import (
	"context"

	"github.com/ovenfresh/shopchat/internal/domain"
)

// Store defines the chat message persistence interface.
type Store interface {
	// Append durably records a message. The store assigns CreatedAt.
	Append(ctx context.Context, msg domain.ChatMessage) error
	// History returns up to `limit` most recent messages for the
	// (shop, customer) conversation, oldest first.
	History(ctx context.Context, shopID, customerID int64, limit int) ([]domain.ChatMessage, error)
	// Close releases any resources held by the store.
	Close() error
}
