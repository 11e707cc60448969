package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlog/learnlog-backend/internal/database"
)

// openTestDB connects to the database named by TEST_POSTGRES_URI. Tests that
// need Postgres are skipped when it isn't set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	uri := os.Getenv("TEST_POSTGRES_URI")
	if uri == "" {
		t.Skip("TEST_POSTGRES_URI not set; skipping database tests")
	}

	db, err := sql.Open("postgres", uri)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, database.InitPostgresTables(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1e9)
}

func TestUserStoreCreateAndVerify(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	name := uniqueName("u")
	email := name + "@example.com"

	user, err := users.Create(ctx, name, email, "password123", false)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)

	got, err := users.VerifyCredentials(ctx, email, "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Wrong password and unknown email fail with the identical error
	_, err = users.VerifyCredentials(ctx, email, "wrongpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.VerifyCredentials(ctx, "nobody-"+email, "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserStoreDuplicates(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	name := uniqueName("dup")
	email := name + "@example.com"
	_, err := users.Create(ctx, name, email, "password123", false)
	require.NoError(t, err)

	// Same username, different email
	_, err = users.Create(ctx, name, "other-"+email, "password123", false)
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// Same email, different username
	_, err = users.Create(ctx, uniqueName("dup2"), email, "password123", false)
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUserStoreGetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)

	_, err := users.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestEntryStoreOwnerScoping(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	entries := NewEntryStore(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, uniqueName("alice"), uniqueName("alice")+"@example.com", "password123", false)
	require.NoError(t, err)
	bob, err := users.Create(ctx, uniqueName("bob"), uniqueName("bob")+"@example.com", "password123", false)
	require.NoError(t, err)

	entry, err := entries.Create(ctx, alice.ID, EntryFields{
		Title:               "T",
		Content:             "c",
		ResourcesToRemember: "http://example.com/a, http://example.com/b",
		TimeSpent:           "1h",
		Tags:                "x, y",
	})
	require.NoError(t, err)
	assert.Equal(t, "x,y", entry.Tags)
	assert.Equal(t, "http://example.com/a,http://example.com/b", entry.ResourcesToRemember)

	// Bob cannot see, update or delete Alice's entry
	got, err := entries.GetOne(ctx, bob.ID, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	updated, err := entries.Update(ctx, bob.ID, entry.ID, EntryFields{
		Title: "hacked", Content: "c", ResourcesToRemember: "r", TimeSpent: "1h", Tags: "x",
	})
	require.NoError(t, err)
	assert.False(t, updated)

	deleted, err := entries.Delete(ctx, bob.ID, entry.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Alice still sees her entry untouched
	got, err = entries.GetOne(ctx, alice.ID, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T", got.Title)

	// And can delete it herself
	deleted, err = entries.Delete(ctx, alice.ID, entry.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = entries.GetOne(ctx, alice.ID, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntryStoreStreamOrderAndTagFilter(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	entries := NewEntryStore(db)
	ctx := context.Background()

	user, err := users.Create(ctx, uniqueName("stream"), uniqueName("stream")+"@example.com", "password123", false)
	require.NoError(t, err)

	days := []string{"2026-08-01", "2026-08-03", "2026-08-02"}
	tags := []string{"poetry,fun", "sports", "poetry"}
	for i, day := range days {
		ts, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		_, err = entries.Create(ctx, user.ID, EntryFields{
			Timestamp: ts, Title: "T" + day, Content: "c",
			ResourcesToRemember: "r", TimeSpent: "1h", Tags: tags[i],
		})
		require.NoError(t, err)
	}

	stream, err := entries.GetStream(ctx, user.ID, 100)
	require.NoError(t, err)
	require.Len(t, stream, 3)
	for i := 1; i < len(stream); i++ {
		assert.False(t, stream[i].Timestamp.After(stream[i-1].Timestamp), "stream must be newest-first")
	}

	// Substring tag match: "po" matches both poetry entries but not sports
	tagged, err := entries.GetByTag(ctx, user.ID, "po", 100)
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	for _, e := range tagged {
		assert.Contains(t, e.Tags, "po")
	}

	limited, err := entries.GetStream(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEntryStoreDefaultsAndValidation(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	entries := NewEntryStore(db)
	ctx := context.Background()

	user, err := users.Create(ctx, uniqueName("def"), uniqueName("def")+"@example.com", "password123", false)
	require.NoError(t, err)

	// Omitted timestamp defaults to today
	entry, err := entries.Create(ctx, user.ID, EntryFields{
		Title: "T", Content: "c", ResourcesToRemember: "r", TimeSpent: "1h", Tags: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), entry.Timestamp.Format("2006-01-02"))

	// Empty required fields are rejected, not persisted
	_, err = entries.Create(ctx, user.ID, EntryFields{
		Title: "   ", Content: "c", ResourcesToRemember: "r", TimeSpent: "1h", Tags: "x",
	})
	assert.Error(t, err)
}
