package mocks

import (
	"context"

	"github.com/vaani-ai/vaani/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc          func(ctx context.Context, user *domain.User) error
	FindByIDFunc      func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc   func(ctx context.Context, email string) (*domain.User, error)
	UpdateProfileFunc func(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, fields)
	}
	return nil, nil
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	Appended       []domain.HistoryEntry
	AppendFunc     func(ctx context.Context, entry *domain.HistoryEntry) error
	ListByUserFunc func(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	m.Appended = append(m.Appended, *entry)
	return nil
}

func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return m.Appended, nil
}
