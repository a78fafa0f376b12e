package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored per-user message written as a side effect of
// mutations. Delivery beyond storage is out of scope.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
