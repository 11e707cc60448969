package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/internal/store"
	"github.com/learnlog/learnlog-backend/pkg/utils"
)

// SignupRequest carries the registration form fields.
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// SigninRequest carries the login form fields.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the common auth endpoint response shape.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// AuthHandler serves registration, login, logout and the current-user lookup.
type AuthHandler struct {
	users    Users
	sessions Sessions
}

func NewAuthHandler(users Users, sessions Sessions) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// validate checks the signup form fields. The password confirmation is
// compared here, before the credential store is ever called.
func (req *SignupRequest) validate() error {
	if err := utils.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return err
	}
	if req.Password != req.PasswordConfirm {
		return &utils.ValidationError{Field: "password_confirm", Message: "Passwords must match"}
	}
	return nil
}

// Signup handles user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, req.Password, false)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			// Generic on purpose: don't reveal whether the username or the
			// email is taken.
			writeJSON(w, http.StatusConflict, AuthResponse{
				Success: false,
				Message: "Unable to register with the provided username or email",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create account"})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    userMap(user),
	})
}

// Signin handles user login. A fresh session is always created; any prior
// session for the account is invalidated by the session service.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Email and password are required"})
		return
	}

	user, err := h.users.VerifyCredentials(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Database error"})
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		User:    userMap(user),
		Token:   token,
	})
}

// Signout invalidates the caller's session. Idempotent: signing out twice or
// without a session still returns success.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		h.sessions.Invalidate(r.Context(), token)
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the authenticated user's profile, fetched fresh per request.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	user, err := h.sessions.Resolve(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Database error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: userMap(user)})
}

func userMap(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID.String(),
		"username":  u.Username,
		"email":     u.Email,
		"joined_at": u.JoinedAt.Format(time.RFC3339),
		"is_admin":  u.IsAdmin,
	}
}
