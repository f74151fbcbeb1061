package domain

import (
	"encoding/json"
	"time"
)

// ChatMessage is the persisted record of one message in a
// (shop, customer) conversation. Created once at send time, never
// mutated. CreatedAt is assigned by the store on append.
type ChatMessage struct {
	ID         int64     `json:"id"`
	ShopID     int64     `json:"shop_id"`
	CustomerID int64     `json:"customer_id"`
	SenderID   int64     `json:"sender_id"`
	Text       string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Encode serializes a value to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
