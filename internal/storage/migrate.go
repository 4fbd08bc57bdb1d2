package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"fintrack/internal/log"
)

// SchemaVersion is the schema version this build migrates to.
const SchemaVersion = 2

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the database at dbPath up to SchemaVersion and
// returns the version it ends at. Steps already applied are skipped.
// A nil logger discards output.
func RunMigrations(dbPath string, logger *log.Logger) (uint, error) {
	return migrateTo(dbPath, 0, logger)
}

// migrateTo migrates to target, or all the way up when target is 0.
func migrateTo(dbPath string, target uint, logger *log.Logger) (uint, error) {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentMigrate)
	start := time.Now()

	// Create a separate connection for migrations to avoid interfering with the main connection
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if target == 0 {
		err = m.Up()
	} else {
		err = m.Migrate(target)
	}
	changed := !errors.Is(err, migrate.ErrNoChange)
	if err != nil && changed {
		logger.Error("Migration failed", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath, log.FieldError, err)
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}

	if changed {
		logger.Info("Migrations applied",
			log.FieldOperation, log.OpMigrate,
			log.FieldPath, dbPath,
			log.FieldVersion, version,
			log.FieldDurationMs, time.Since(start).Milliseconds())
	} else {
		logger.Debug("Schema up to date", log.FieldOperation, log.OpMigrate, log.FieldVersion, version)
	}
	return version, nil
}
