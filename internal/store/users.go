package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/pkg/utils"
)

// pqUniqueViolation is the Postgres error code for a unique constraint hit.
const pqUniqueViolation = "23505"

// UserStore manages account rows and credential verification. Passwords are
// stored only as argon2id hashes; the plaintext never touches the database.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user with a hashed password. Username and email
// uniqueness is enforced by the database constraints, not a pre-check, so
// concurrent signups cannot race each other; a constraint hit surfaces as
// ErrDuplicateUser.
func (s *UserStore) Create(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at
	`, username, email, hashed, isAdmin).Scan(&user.ID, &user.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return user, nil
}

// VerifyCredentials looks a user up by email and checks the password against
// the stored hash. A missing account and a wrong password both return
// ErrInvalidCredentials so the caller cannot tell them apart.
func (s *UserStore) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.getBy(ctx, "email", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID fetches a user row fresh. Sessions call this on every request so a
// deleted account invalidates its sessions immediately; a miss returns
// ErrSessionInvalid.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.getBy(ctx, "id", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *UserStore) getBy(ctx context.Context, column string, value interface{}) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, joined_at, is_admin
		FROM users WHERE `+column+` = $1
	`, value).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.JoinedAt, &user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
