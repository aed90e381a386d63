package billing

import "time"

// WebhookEvent keeps every payload the billing provider sent us. The
// (provider, event_id) pair deduplicates redeliveries.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey"`
	Provider        string     `gorm:"type:varchar(20);not null;uniqueIndex:ux_webhook_events_provider_event,priority:1"`
	EventID         string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_webhook_events_provider_event,priority:2"`
	EventType       string     `gorm:"type:varchar(100);not null;index"`
	PayloadJSON     string     `gorm:"type:text;not null"`
	ProcessedAt     *time.Time `gorm:"default:null"`
	ProcessingError string     `gorm:"type:text"`
	CreatedAt       time.Time
}
