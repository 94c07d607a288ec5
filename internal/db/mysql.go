package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"authstack/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the user and session tables. With reset set,
// both tables are dropped first (sessions before users, they hold the
// foreign key).
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		for _, table := range []interface{}{&model.Session{}, &model.User{}} {
			if err := db.Migrator().DropTable(table); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}

	if err := db.AutoMigrate(&model.User{}, &model.Session{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
