package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ovenfresh/shopchat/internal/domain"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at url and ensures the schema.
func NewPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS chat_messages (
  id bigserial PRIMARY KEY,
  shop_id bigint NOT NULL,
  customer_id bigint NOT NULL,
  sender_id bigint NOT NULL,
  text text NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_conversation
  ON chat_messages(shop_id, customer_id, created_at);`)
	return err
}

// Append records a message, letting the database assign the timestamp.
func (s *PostgresStore) Append(ctx context.Context, msg domain.ChatMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_messages(shop_id, customer_id, sender_id, text) VALUES($1, $2, $3, $4)`,
		msg.ShopID, msg.CustomerID, msg.SenderID, msg.Text,
	)
	return err
}

// History returns up to `limit` most recent messages for the
// conversation, oldest first.
func (s *PostgresStore) History(ctx context.Context, shopID, customerID int64, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, shop_id, customer_id, sender_id, text, created_at FROM chat_messages
		WHERE shop_id = $1 AND customer_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, shopID, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.ShopID, &m.CustomerID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
var _ Store = (*SQLiteStore)(nil)
