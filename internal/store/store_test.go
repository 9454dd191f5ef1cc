package store

import (
	"database/sql"
	"log"

	"github.com/haatos/simple-ci-metrics/internal/settings"
)

func newTestDB() *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	// every pooled connection to :memory: would be a separate database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Fatal(err)
	}
	if err := RunMigrations(db, settings.DriverSQLite); err != nil {
		log.Fatal(err)
	}
	return db
}
