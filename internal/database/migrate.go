package database

import (
	"github.com/foodshareapp/foodshare-backend/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Donation{},
	)
}
