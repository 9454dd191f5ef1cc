package store

import (
	"database/sql"
	"fmt"
	"runtime"

	"github.com/haatos/simple-ci-metrics/internal/settings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// InitDatabase opens the configured database. SQLite is opened once for
// readers and once for the single writer; Postgres uses one pool for both.
func InitDatabase(s *settings.AppSettings, readonly bool) (*sql.DB, error) {
	switch s.DBDriver {
	case settings.DriverPostgres:
		return initPostgres(s)
	case settings.DriverSQLite:
		return initSQLite(s, readonly)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", s.DBDriver)
	}
}

func initSQLite(s *settings.AppSettings, readonly bool) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.SQLiteDbString(readonly))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if readonly {
		db.SetMaxOpenConns(max(4, runtime.NumCPU()))
	} else {
		if _, err := db.Exec("PRAGMA temp_store=memory"); err != nil {
			db.Close()
			return nil, err
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func initPostgres(s *settings.AppSettings) (*sql.DB, error) {
	if s.PostgresDSN == "" {
		return nil, fmt.Errorf("SIMPLECI_DB_DSN is required for the postgres driver")
	}
	db, err := sql.Open("pgx", s.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(max(4, runtime.NumCPU()))
	return db, nil
}
