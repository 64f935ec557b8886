package sqlite

import (
	"context"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Scheme prefixes a WALLET_DB value that selects this backend,
// e.g. "sqlite://wallet.db" or "sqlite://file::memory:?cache=shared".
const Scheme = "sqlite:"

// IsDSN reports whether dsn selects the sqlite backend.
func IsDSN(dsn string) bool { return strings.HasPrefix(dsn, Scheme) }

// Open opens the database behind a sqlite DSN. The pool is limited to one
// connection: sqlite has no row locks, so transactions run one at a time.
func Open(dsn string) (*gorm.DB, error) {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, Scheme), "//")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates the schema; reset drops existing tables first.
func Migrate(ctx context.Context, db *gorm.DB, reset bool) error {
	m := db.WithContext(ctx).Migrator()
	if reset {
		if err := m.DropTable(&balanceRecord{}); err != nil {
			return err
		}
	}
	return m.AutoMigrate(&balanceRecord{})
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
