package repositories

import (
	"fmt"

	"github.com/anonto42/userposts/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates the user and post tables, their unique indexes and the
// post.user_id foreign key when missing. Running it again is a no-op.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
