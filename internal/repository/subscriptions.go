package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/domain/subscriptions"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert writes sub keyed on user_id, overwriting the previous plan.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *subscriptions.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"status",
			"subscription_id",
			"current_period_start",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

// UpdateBySubscriptionID applies fields to the row owning the external
// subscription id and returns how many rows changed.
func (r *SubscriptionRepository) UpdateBySubscriptionID(ctx context.Context, subscriptionID string, fields map[string]any) (int64, error) {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	tx := r.db.WithContext(ctx).
		Model(&subscriptions.Subscription{}).
		Where("subscription_id = ?", subscriptionID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

// FindActiveByUser returns the user's active subscription or subscriptions.ErrNotFound.
func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, subscriptions.StatusActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, subscriptions.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
