package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/internal/store"
	"github.com/learnlog/learnlog-backend/pkg/utils"
)

// dateLayout is the wire format for entry timestamps.
const dateLayout = "2006-01-02"

// EntryRequest carries the writable entry fields for create and update.
type EntryRequest struct {
	Timestamp           string `json:"timestamp,omitempty"` // yyyy-mm-dd, defaults to today
	Title               string `json:"title"`
	Content             string `json:"content"`
	ResourcesToRemember string `json:"resources_to_remember"`
	TimeSpent           string `json:"time_spent"`
	Tags                string `json:"tags"`
}

// EntryResponse is the single-entry response shape.
type EntryResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Entry   map[string]interface{} `json:"entry,omitempty"`
}

// EntriesResponse is the listing response shape.
type EntriesResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Entries []map[string]interface{} `json:"entries"`
}

// DeleteResponse reports the outcome of a delete, including the cancelled and
// confirmation-pending states.
type DeleteResponse struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	ConfirmationRequired bool   `json:"confirmation_required,omitempty"`
}

// EntryHandler serves the learning-log entry CRUD. Every operation resolves
// the session first and hands only the resulting owner id to the repository;
// a client-supplied owner is never accepted.
type EntryHandler struct {
	sessions    Sessions
	entries     Entries
	streamLimit int
}

func NewEntryHandler(sessions Sessions, entries Entries, streamLimit int) *EntryHandler {
	return &EntryHandler{sessions: sessions, entries: entries, streamLimit: streamLimit}
}

// requireUser validates the session and returns the authenticated user.
// Returns nil if the request is anonymous.
func (h *EntryHandler) requireUser(r *http.Request) *models.User {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil
	}
	user, err := h.sessions.Resolve(r.Context(), token)
	if err != nil {
		return nil
	}
	return user
}

// fields parses the request into repository fields. An omitted timestamp is
// left zero so the repository defaults it to today.
func (req *EntryRequest) fields() (store.EntryFields, error) {
	fields := store.EntryFields{
		Title:               req.Title,
		Content:             req.Content,
		ResourcesToRemember: req.ResourcesToRemember,
		TimeSpent:           req.TimeSpent,
		Tags:                req.Tags,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(dateLayout, req.Timestamp)
		if err != nil {
			return fields, &utils.ValidationError{Field: "timestamp", Message: "Enter the date as example: 2006-01-02"}
		}
		fields.Timestamp = ts
	}
	return fields, nil
}

// CreateEntry creates a new entry owned by the authenticated user.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	fields, err := req.fields()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: err.Error()})
		return
	}

	entry, err := h.entries.Create(r.Context(), user.ID, fields)
	if err != nil {
		var vErr *utils.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: vErr.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to create entry"})
		return
	}

	writeJSON(w, http.StatusCreated, EntryResponse{
		Success: true,
		Message: "Entry posted! Thanks!",
		Entry:   entryMap(entry),
	})
}

// GetEntries returns the authenticated user's stream, newest first. With a
// ?tag= query it filters to entries whose tags contain that value.
func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, EntriesResponse{Success: false, Message: "Authentication required", Entries: []map[string]interface{}{}})
		return
	}

	limit := h.streamLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	var (
		entries []models.Entry
		err     error
	)
	if tag := r.URL.Query().Get("tag"); tag != "" {
		entries, err = h.entries.GetByTag(r.Context(), user.ID, tag, limit)
	} else {
		entries, err = h.entries.GetStream(r.Context(), user.ID, limit)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, EntriesResponse{Success: false, Message: "Failed to load entries", Entries: []map[string]interface{}{}})
		return
	}

	result := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		result = append(result, entryMap(&entries[i]))
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: result})
}

// GetEntry returns one entry. An entry that doesn't exist and an entry owned
// by someone else are indistinguishable: both are a 404.
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	entry, err := h.entries.GetOne(r.Context(), user.ID, entryID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to load entry"})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Entry not found"})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Entry: entryMap(entry)})
}

// UpdateEntry edits an entry in place. Updating an entry that isn't the
// caller's affects zero rows and reports not found.
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{Success: false, Message: "Authentication required"})
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	var req EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	fields, err := req.fields()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: err.Error()})
		return
	}

	updated, err := h.entries.Update(r.Context(), user.ID, entryID, fields)
	if err != nil {
		var vErr *utils.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: vErr.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to update entry"})
		return
	}
	if !updated {
		writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Entry not found"})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Message: "Entry updated! Thanks!"})
}

// DeleteEntry removes an entry after explicit confirmation. The confirm query
// parameter is tri-state: "yes" deletes, "no" cancels, anything else asks the
// client to confirm first.
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, DeleteResponse{Success: false, Message: "Authentication required"})
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, DeleteResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	switch r.URL.Query().Get("confirm") {
	case "yes":
		// Fall through to the delete below
	case "no":
		writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Deletion cancelled"})
		return
	default:
		writeJSON(w, http.StatusOK, DeleteResponse{
			Success:              false,
			Message:              "Confirm deletion with confirm=yes or cancel with confirm=no",
			ConfirmationRequired: true,
		})
		return
	}

	deleted, err := h.entries.Delete(r.Context(), user.ID, entryID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, DeleteResponse{Success: false, Message: "Failed to delete entry"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, DeleteResponse{Success: false, Message: "Entry not found"})
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Deletion complete."})
}

func entryMap(e *models.Entry) map[string]interface{} {
	return map[string]interface{}{
		"id":                    e.ID.String(),
		"timestamp":             e.Timestamp.Format(dateLayout),
		"title":                 e.Title,
		"content":               e.Content,
		"resources_to_remember": e.ResourcesToRemember,
		"time_spent":            e.TimeSpent,
		"tags":                  e.Tags,
		"created_at":            e.CreatedAt,
	}
}
