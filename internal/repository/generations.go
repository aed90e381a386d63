package repository

import (
	"context"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/domain/generations"

	"gorm.io/gorm"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) Record(ctx context.Context, g *generations.ImageGeneration) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// CountSince counts a user's generations created at or after since.
func (r *GenerationRepository) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&generations.ImageGeneration{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&n).Error
	return n, err
}
