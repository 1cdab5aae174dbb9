package ports

import (
	"context"

	"github.com/vaani-ai/vaani/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
}
