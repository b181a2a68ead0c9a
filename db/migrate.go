package db

import (
	"fmt"

	"github.com/meinhoongagan/careforme-admin/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.DoctorDocument{},
		&models.NotificationSettings{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
