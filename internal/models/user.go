package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash is the argon2id encoded form and must
// never be serialized to clients.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	JoinedAt     time.Time `json:"joined_at"`
	IsAdmin      bool      `json:"is_admin"`
}
