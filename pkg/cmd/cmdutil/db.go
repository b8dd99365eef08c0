package cmdutil

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gofrs/flock"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ssrl/fastind/pkg/config"
	"github.com/ssrl/fastind/pkg/service"
	"github.com/ssrl/fastind/pkg/util/backoff"
)

// ConnectDB opens the feature store, retrying while the server is not
// reachable, and creates the tables that are missing.
func ConnectDB(ctx context.Context, db config.Database) (*service.DatabaseService, error) {
	dbService := service.NewDatabaseService(db.Driver, db.DSN())
	if err := backoff.RetryGeneral(ctx, func() error {
		return dbService.Connect(ctx)
	}); err != nil {
		return nil, err
	}

	if err := dbService.Upgrade(ctx); err != nil {
		if cerr := dbService.Close(); cerr != nil {
			log.WithError(cerr).Error("close database error")
		}
		return nil, err
	}

	log.Debugf("connected to %s database %s@%s", db.Driver, db.Name, db.Host)
	return dbService, nil
}

// LockDatabase takes an exclusive lock file next to a sqlite3 database, so
// that only one process writes into it. Server databases need no lock and
// get a no-op unlock function.
func LockDatabase(db config.Database) (unlock func(), err error) {
	if db.Driver != "sqlite3" {
		return func() {}, nil
	}

	lock := flock.New(db.Name + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", lock.Path())
	}

	if !locked {
		return nil, errors.Errorf("database %s is locked by another process", db.Name)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Errorf("unlock %s error", lock.Path())
		}
	}, nil
}
