package store

import (
	"database/sql"
	"fmt"
	"path"

	assets "github.com/haatos/simple-ci-metrics"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

// RunMigrations applies the embedded migrations for driver to db.
func RunMigrations(db *sql.DB, driver string) error {
	goose.SetBaseFS(assets.MigrationsFS)
	if err := goose.SetDialect(driver); err != nil {
		return err
	}
	if err := goose.Up(db, path.Join(migrationsDir, driver)); err != nil {
		return fmt.Errorf("run %s migrations: %w", driver, err)
	}
	return nil
}

// MigrationVersion returns the version of the latest applied migration.
func MigrationVersion(db *sql.DB, driver string) (int64, error) {
	if err := goose.SetDialect(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}
