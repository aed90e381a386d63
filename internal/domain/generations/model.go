package generations

import "time"

// ImageGeneration records one successful model call by a signed-in user.
// Monthly counts of these rows are reported as credits used.
type ImageGeneration struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_generations_user_created,priority:1"`
	Model     string    `gorm:"type:varchar(128)"`
	Prompt    string    `gorm:"type:text"`
	HasImage  bool
	CreatedAt time.Time `gorm:"index:idx_generations_user_created,priority:2"`
}
