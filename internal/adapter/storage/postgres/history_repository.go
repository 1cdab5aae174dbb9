package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/ports"
)

type HistoryRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *gorm.DB, log *zap.Logger) ports.HistoryRepository {
	return &HistoryRepository{db: db, log: log}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	defer observe(time.Now())
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByUser returns the user's most recent commands, newest first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	defer observe(time.Now())
	var entries []domain.HistoryEntry
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
