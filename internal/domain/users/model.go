package users

import "time"

// User is a person signed in through one of the OAuth providers. The ID is a
// UUID so it can be carried verbatim in checkout metadata.
type User struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	Provider       string `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_provider_account,priority:1"`
	ProviderUserID string `gorm:"type:varchar(191);not null;uniqueIndex:idx_users_provider_account,priority:2"`
	Email          string `gorm:"index:idx_users_email"`
	Name           string
	AvatarURL      string

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
