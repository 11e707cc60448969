package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/learnlog/learnlog-backend/internal/models"
	"github.com/learnlog/learnlog-backend/internal/store"
)

// MockUsers is a mock implementation of the Users interface
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error) {
	args := m.Called(ctx, username, email, password, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSessions is a mock implementation of the Sessions interface
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessions) Resolve(ctx context.Context, sessionToken string) (*models.User, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessions) Invalidate(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}

// MockEntries is a mock implementation of the Entries interface
type MockEntries struct {
	mock.Mock
}

func (m *MockEntries) Create(ctx context.Context, ownerID uuid.UUID, fields store.EntryFields) (*models.Entry, error) {
	args := m.Called(ctx, ownerID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntries) GetOne(ctx context.Context, ownerID, entryID uuid.UUID) (*models.Entry, error) {
	args := m.Called(ctx, ownerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntries) GetStream(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Entry, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntries) GetByTag(ctx context.Context, ownerID uuid.UUID, tag string, limit int) ([]models.Entry, error) {
	args := m.Called(ctx, ownerID, tag, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntries) Update(ctx context.Context, ownerID, entryID uuid.UUID, fields store.EntryFields) (bool, error) {
	args := m.Called(ctx, ownerID, entryID, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntries) Delete(ctx context.Context, ownerID, entryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, entryID)
	return args.Bool(0), args.Error(1)
}
