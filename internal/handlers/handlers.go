package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/internal/store"
)

// Users is the credential-store surface the handlers call.
type Users interface {
	Create(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
}

// Sessions resolves and manages opaque session tokens.
type Sessions interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, sessionToken string) (*models.User, error)
	Invalidate(ctx context.Context, sessionToken string) error
}

// Entries is the owner-scoped entry repository surface.
type Entries interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields store.EntryFields) (*models.Entry, error)
	GetOne(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Entry, error)
	GetStream(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Entry, error)
	GetByTag(ctx context.Context, ownerID uuid.UUID, tag string, limit int) ([]models.Entry, error)
	Update(ctx context.Context, ownerID, entryID uuid.UUID, fields store.EntryFields) (bool, error)
	Delete(ctx context.Context, ownerID, entryID uuid.UUID) (bool, error)
}

// extractBearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
