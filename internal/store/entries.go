package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/pkg/utils"
)

// EntryFields carries the writable fields of an entry. Title, Content and
// TimeSpent are trimmed before storage; Tags and ResourcesToRemember are
// normalized comma lists. A zero Timestamp defaults to today.
type EntryFields struct {
	Timestamp           time.Time
	Title               string
	Content             string
	ResourcesToRemember string
	TimeSpent           string
	Tags                string
}

// EntryStore provides CRUD over entries. Every operation takes the owning
// user's id explicitly; write paths never accept a caller-supplied owner, so
// ownership always comes from the authenticated session.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

// normalize trims and normalizes fields in place and rejects empty required
// fields. Defends the storage layer even though handlers validate upstream.
func (f *EntryFields) normalize() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.TimeSpent = strings.TrimSpace(f.TimeSpent)
	f.ResourcesToRemember = NormalizeList(f.ResourcesToRemember)
	f.Tags = NormalizeList(f.Tags)
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now()
	}

	for field, value := range map[string]string{
		"title":                 f.Title,
		"content":               f.Content,
		"resources_to_remember": f.ResourcesToRemember,
		"time_spent":            f.TimeSpent,
		"tags":                  f.Tags,
	} {
		if value == "" {
			return &utils.ValidationError{Field: field, Message: field + " is required"}
		}
	}
	return nil
}

// Create inserts a new entry owned by ownerID.
func (s *EntryStore) Create(ctx context.Context, ownerID uuid.UUID, fields EntryFields) (*models.Entry, error) {
	if err := fields.normalize(); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID:              ownerID,
		Timestamp:           fields.Timestamp,
		Title:               fields.Title,
		Content:             fields.Content,
		ResourcesToRemember: fields.ResourcesToRemember,
		TimeSpent:           fields.TimeSpent,
		Tags:                fields.Tags,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO entries (user_id, timestamp, title, content, resources_to_remember, time_spent, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, timestamp, created_at
	`, ownerID, fields.Timestamp, fields.Title, fields.Content,
		fields.ResourcesToRemember, fields.TimeSpent, fields.Tags,
	).Scan(&entry.ID, &entry.Timestamp, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// GetOne returns the entry only when it exists and belongs to ownerID.
// A missing or foreign entry returns (nil, nil); turning that into a
// not-found response is the caller's job.
func (s *EntryStore) GetOne(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+` WHERE id = $1 AND user_id = $2`, entryID, ownerID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// GetStream returns ownerID's entries newest-timestamp-first, capped at limit.
func (s *EntryStore) GetStream(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+`
		WHERE user_id = $1
		ORDER BY timestamp DESC, created_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// GetByTag returns ownerID's entries whose normalized tags string contains
// tag as a substring, newest-first. Substring (not exact-tag) matching is the
// documented behavior: searching "po" matches an entry tagged "poetry".
func (s *EntryStore) GetByTag(ctx context.Context, ownerID uuid.UUID, tag string, limit int) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+`
		WHERE user_id = $1 AND position($2 in tags) > 0
		ORDER BY timestamp DESC, created_at DESC
		LIMIT $3
	`, ownerID, tag, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Update applies the same normalization as Create to the entry matching
// (entryID, ownerID). When no owned row matches, zero rows are affected and
// the call reports false with no error.
func (s *EntryStore) Update(ctx context.Context, ownerID, entryID uuid.UUID, fields EntryFields) (bool, error) {
	if err := fields.normalize(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE entries
		SET timestamp = $1, title = $2, content = $3, resources_to_remember = $4, time_spent = $5, tags = $6
		WHERE id = $7 AND user_id = $8
	`, fields.Timestamp, fields.Title, fields.Content,
		fields.ResourcesToRemember, fields.TimeSpent, fields.Tags, entryID, ownerID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes the entry matching (entryID, ownerID); no-op when no owned
// row matches.
func (s *EntryStore) Delete(ctx context.Context, ownerID, entryID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM entries WHERE id = $1 AND user_id = $2
	`, entryID, ownerID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectEntry = `
	SELECT id, user_id, timestamp, title, content, resources_to_remember, time_spent, tags, created_at
	FROM entries`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Title, &e.Content,
		&e.ResourcesToRemember, &e.TimeSpent, &e.Tags, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
