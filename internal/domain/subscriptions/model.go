package subscriptions

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("subscription not found")

// Subscription mirrors the billing provider's view of a user's plan. Rows are
// written only by webhook events; the last accepted event wins.
type Subscription struct {
	ID                 uint       `gorm:"primaryKey" json:"-"`
	UserID             string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_subscriptions_user_id" json:"user_id"`
	Plan               string     `gorm:"type:varchar(50);not null;default:'free'" json:"plan"`
	Status             string     `gorm:"type:varchar(32);not null;index" json:"status"`
	SubscriptionID     string     `gorm:"column:subscription_id;type:varchar(191);index:idx_subscriptions_subscription_id" json:"subscription_id"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"current_period_end"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
