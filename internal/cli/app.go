package cli

import (
	"database/sql"
	"errors"

	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/jonboulle/clockwork"
)

// app wires the stores and services shared by the commands that need a
// database.
type app struct {
	rdb  *sql.DB
	rwdb *sql.DB

	clock     clockwork.Clock
	jobStore  *store.JobSQLStore
	runStore  *store.RunSQLStore
	stepStore *store.StepSQLStore

	jobService     *service.JobService
	metricsService *service.MetricsService
	apiKeyService  *service.APIKeyService
}

// openApp opens the database, applies pending migrations and builds the
// services.
func openApp(s *settings.AppSettings) (*app, error) {
	rwdb, err := store.InitDatabase(s, false)
	if err != nil {
		return nil, err
	}
	if err := store.RunMigrations(rwdb, s.DBDriver); err != nil {
		rwdb.Close()
		return nil, err
	}
	rdb, err := store.InitDatabase(s, true)
	if err != nil {
		rwdb.Close()
		return nil, err
	}

	a := &app{
		rdb:       rdb,
		rwdb:      rwdb,
		clock:     clockwork.NewRealClock(),
		jobStore:  store.NewJobSQLStore(rdb, rwdb),
		runStore:  store.NewRunSQLStore(rdb, rwdb),
		stepStore: store.NewStepSQLStore(rdb, rwdb),
	}
	a.jobService = service.NewJobService(a.jobStore, a.runStore, a.stepStore, a.clock)
	a.metricsService = service.NewMetricsService(a.jobStore, a.runStore, a.stepStore, a.clock)
	a.apiKeyService = service.NewAPIKeyService(
		store.NewAPIKeySQLStore(rdb, rwdb),
		service.RandomKeys{},
		a.clock,
	)
	return a, nil
}

func (a *app) Close() error {
	return errors.Join(a.rdb.Close(), a.rwdb.Close())
}
