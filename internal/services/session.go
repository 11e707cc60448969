package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/internal/store"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService maps opaque session tokens to user identities. Tokens live
// in Redis under session:<token> -> user id, with a reverse
// user_session:<id> -> token mapping so a user's prior session can be
// invalidated on re-login.
type SessionService struct {
	redis *redis.Client
	users *store.UserStore
}

func NewSessionService(redisClient *redis.Client, users *store.UserStore) *SessionService {
	return &SessionService{redis: redisClient, users: users}
}

// Create establishes a new session for a user and stores it in Redis.
// Any existing session for the user is invalidated first, so re-logging in
// always starts a fresh session and resets the expiry timer.
// Returns the session token.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	// Invalidate any existing session for this user
	s.InvalidateUserSessions(ctx, userID)

	// Generate secure session token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.String()

	// Store session with expiration
	if err := s.redis.Set(ctx, sessionKey, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}

	// Store user->session mapping
	if err := s.redis.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Resolve maps a session token to its user, fetching the user row fresh from
// the database. An empty, unknown or expired token resolves to (nil, nil):
// the anonymous identity. A token whose user no longer exists is cleaned up
// and also resolves to anonymous.
func (s *SessionService) Resolve(ctx context.Context, sessionToken string) (*models.User, error) {
	if sessionToken == "" {
		return nil, nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.redis.Get(ctx, sessionKey).Result()
	if err != nil {
		return nil, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSessionInvalid) {
			// Account is gone; drop the dangling session
			s.Invalidate(ctx, sessionToken)
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Invalidate removes a session from Redis. Idempotent: invalidating an
// unknown or already-removed token is not an error.
func (s *SessionService) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	// Get user ID before deleting
	userIDStr, err := s.redis.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		userSessionKey := UserSessionKeyPrefix + userIDStr
		s.redis.Del(ctx, userSessionKey)
	}

	// Delete session
	return s.redis.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates the current session for a user (used on
// re-login and useful when a password changes).
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	// Get current session token
	sessionToken, err := s.redis.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		sessionKey := SessionKeyPrefix + sessionToken
		s.redis.Del(ctx, sessionKey)
	}

	// Delete user session mapping
	return s.redis.Del(ctx, userSessionKey).Err()
}
