package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ovenfresh/shopchat/internal/domain"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockConn implements registry.Conn for testing.
type MockConn struct {
	ID       string
	mu       sync.Mutex
	messages [][]byte
}

// NewMockConn creates a new MockConn with the given session id.
func NewMockConn(id string) *MockConn {
	return &MockConn{ID: id}
}

// SID returns the mock session id.
func (m *MockConn) SID() string { return m.ID }

// Send records a payload sent to the mock connection.
func (m *MockConn) Send(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.messages = append(m.messages, cp)
}

// Messages returns a copy of all payloads received by the mock.
func (m *MockConn) Messages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]byte, len(m.messages))
	copy(cp, m.messages)
	return cp
}

// Envelopes decodes the received receive_message payloads.
func (m *MockConn) Envelopes() []domain.Envelope {
	var envs []domain.Envelope
	for _, data := range m.Messages() {
		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err == nil && env.Type == domain.EvtReceiveMessage {
			envs = append(envs, env)
		}
	}
	return envs
}

// MockStore implements store.Store in memory, keyed by conversation.
type MockStore struct {
	mu       sync.Mutex
	messages map[string][]domain.ChatMessage
	nextID   int64
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{messages: make(map[string][]domain.ChatMessage)}
}

func conversationKey(shopID, customerID int64) string {
	return fmt.Sprintf("%d/%d", shopID, customerID)
}

// Append records a message, assigning id and timestamp.
func (s *MockStore) Append(ctx context.Context, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg.ID = s.nextID
	msg.CreatedAt = time.Now().UTC()
	key := conversationKey(msg.ShopID, msg.CustomerID)
	s.messages[key] = append(s.messages[key], msg)
	return nil
}

// History returns stored messages for a conversation, oldest first.
func (s *MockStore) History(ctx context.Context, shopID, customerID int64, limit int) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[conversationKey(shopID, customerID)]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	cp := make([]domain.ChatMessage, len(msgs))
	copy(cp, msgs)
	return cp, nil
}

// Close is a no-op for the mock store.
func (s *MockStore) Close() error { return nil }

// FailStore implements store.Store with a failing Append, for
// exercising the persistence-failure path.
type FailStore struct {
	Err error
}

// Append always fails.
func (s *FailStore) Append(ctx context.Context, msg domain.ChatMessage) error { return s.Err }

// History returns nothing.
func (s *FailStore) History(ctx context.Context, shopID, customerID int64, limit int) ([]domain.ChatMessage, error) {
	return nil, nil
}

// Close is a no-op.
func (s *FailStore) Close() error { return nil }
