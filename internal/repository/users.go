package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertIdentity creates or refreshes the user behind a provider account and
// loads the stored row (including its ID) back into u.
func (r *UserRepository) UpsertIdentity(ctx context.Context, u *users.User) error {
	now := time.Now()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.LastLoginAt = &now

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"name",
			"avatar_url",
			"last_login_at",
			"updated_at",
		}),
	}).Create(u).Error; err != nil {
		return err
	}

	return db.Where("provider = ? AND provider_user_id = ?", u.Provider, u.ProviderUserID).First(u).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
