package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// Connect opens the database and returns the handle. Postgres URLs and
// keyword DSNs go through the postgres driver; anything else is treated as
// a SQLite file path.
func Connect(dsn string) (*gorm.DB, error) {
	dbLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	cfg := &gorm.Config{Logger: dbLogger}

	if isPostgresDSN(dsn) {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
}

func MigrateDatabase(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
	}

	migrator := db.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := db.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}

// sqliteDSN turns on foreign key enforcement, which go-sqlite3 leaves off
// per connection by default. Without it the ON DELETE CASCADE constraints
// exist in the schema but are inert.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}

	return dsn + "?_foreign_keys=on"
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]

	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}

	return nil
}
