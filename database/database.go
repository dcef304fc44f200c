package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"checktwfriends/models"
)

// Connect opens the record store with the configured driver and runs the
// schema migration. The default driver is sqlite with a local file DSN;
// postgres takes a standard connection string.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.TrackedFriend{}); err != nil {
		return nil, fmt.Errorf("migrating tracked friend schema: %w", err)
	}

	return db, nil
}
