// Package journal keeps a log of summarize requests in SQLite. Only request
// metadata is stored; file content and summaries never reach the database.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Required by the library implementation.
)

type Journal struct {
	db      *sql.DB
	log     *slog.Logger
	version uint
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

func New(ctx context.Context, dbPath string, log *slog.Logger) (*Journal, error) {
	dbFile, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open DB file: %w", err)
	}

	applied, err := migrateUp(dbFile)
	if err != nil {
		return nil, errors.Join(err, dbFile.Close())
	}

	version, err := schemaVersion(dbFile)
	if err != nil {
		return nil, errors.Join(err, dbFile.Close())
	}

	log.InfoContext(ctx, "Journal is ready",
		"dbPath", dbPath,
		"schemaVersion", version,
		"migrationsApplied", applied)

	return &Journal{db: dbFile, log: log, version: version}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// SchemaVersion is the migration version the journal was opened at.
func (j *Journal) SchemaVersion() uint {
	return j.version
}

// migrateUp brings the schema to the latest embedded migration and reports
// whether anything changed.
func migrateUp(dbFile *sql.DB) (bool, error) {
	m, err := newMigrate(dbFile)
	if err != nil {
		return false, err
	}

	switch err = m.Up(); {
	case err == nil:
		return true, nil
	case errors.Is(err, migrate.ErrNoChange):
		return false, nil
	default:
		return false, fmt.Errorf("apply migrations: %w", err)
	}
}

func schemaVersion(dbFile *sql.DB) (uint, error) {
	var version uint
	var dirty bool

	err := dbFile.QueryRow("select version, dirty from schema_migrations limit 1").Scan(&version, &dirty)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	if dirty {
		return 0, fmt.Errorf("schema version %d is dirty", version)
	}

	return version, nil
}

func newMigrate(dbFile *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(dbFile, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("create DB instance: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create source instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, nil
}
