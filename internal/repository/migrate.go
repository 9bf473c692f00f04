package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/db/migrations"
	"github.com/pgale/abn-tracker/internal/entity"
)

// AutoMigrate needs the partial index spelled out because gorm tags cannot
// express a WHERE clause. The same statement works on Postgres and SQLite.
const successIndexDDL = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_document_hash_success
ON abn_document_registry (file_hash_sha256)
WHERE ingestion_status = 'SUCCESS'`

// Migrate creates or updates every table on the given connection. Used by the
// SQLite and in-memory paths; Postgres deployments run the versioned
// migrations via InitSchema instead.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := db.Exec(successIndexDDL).Error; err != nil {
		return fmt.Errorf("create success index: %w", err)
	}
	return nil
}

// InitSchema applies the embedded SQL migrations to a Postgres database.
func InitSchema(dsn string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migration: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	logger.Info("applying database migrations")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("failed to apply migrations", "error", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("database schema up to date", "version", version, "dirty", dirty)
	return nil
}
