package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents one dated learning-log record owned by a single user.
// Tags and ResourcesToRemember are stored as normalized comma-separated
// strings (split on comma, each piece trimmed, rejoined).
type Entry struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	Timestamp           time.Time `json:"timestamp"` // date only, user-supplied
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	ResourcesToRemember string    `json:"resources_to_remember"`
	TimeSpent           string    `json:"time_spent"`
	Tags                string    `json:"tags"`
	CreatedAt           time.Time `json:"created_at"`
}
