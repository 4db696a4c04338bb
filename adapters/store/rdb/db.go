package rdb

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenFromURL opens a GORM DB from a db-url string. Supported schemes are
// sqlite:<dsn> and its alias sqlite3:<dsn>, with sqlite::memory: for an
// in-memory database. An empty dsn falls back to ./strato.db.
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	for _, scheme := range []string{"sqlite:", "sqlite3:"} {
		if !strings.HasPrefix(dbURL, scheme) {
			continue
		}
		dsn := strings.TrimPrefix(dbURL, scheme)
		if dsn == "" {
			dsn = "./strato.db"
		}
		// GORM's default logger writes to stdout, which the CLI reserves
		// for JSON output.
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	}
	return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&WorkspaceRecord{}, &CredentialRecord{}, &BulkOperationRecord{})
}
