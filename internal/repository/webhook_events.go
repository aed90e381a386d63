package repository

import (
	"context"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/domain/billing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Record stores ev unless the provider already delivered it. It reports
// whether a new row was written; ev.ID is always populated.
func (r *WebhookEventRepository) Record(ctx context.Context, ev *billing.WebhookEvent) (bool, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "event_id"},
		},
		DoNothing: true,
	}).Create(ev)
	if tx.Error != nil {
		return false, tx.Error
	}

	created := tx.RowsAffected > 0
	if !created {
		var stored billing.WebhookEvent
		if err := db.Where("provider = ? AND event_id = ?", ev.Provider, ev.EventID).First(&stored).Error; err != nil {
			return false, err
		}
		*ev = stored
	}
	return created, nil
}

// MarkProcessed stamps the event; processingError is empty on success.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&billing.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
