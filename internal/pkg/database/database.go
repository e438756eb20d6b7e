package database

import "gorm.io/gorm"

var DB *gorm.DB

// GetDB returns the shared database handle, or nil before SetupDatabase ran
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the shared database handle. Used by tests to inject an
// in-memory or mocked connection.
func SetDB(db *gorm.DB) {
	DB = db
}
