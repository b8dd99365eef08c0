package service

import (
	"context"

	"github.com/c9s/rockhopper"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	mysqlMigrations "github.com/ssrl/fastind/pkg/migrations/mysql"
	postgresMigrations "github.com/ssrl/fastind/pkg/migrations/postgres"
	sqlite3Migrations "github.com/ssrl/fastind/pkg/migrations/sqlite3"
)

type DatabaseService struct {
	Driver string
	DSN    string
	DB     *sqlx.DB
}

func NewDatabaseService(driver, dsn string) *DatabaseService {
	if driver == "mysql" {
		var err error
		dsn, err = ReformatMysqlDSN(dsn)
		if err != nil {
			// incorrect mysql dsn is logical exception
			panic(err)
		}
	}

	return &DatabaseService{
		Driver: driver,
		DSN:    dsn,
	}
}

func (s *DatabaseService) Connect(ctx context.Context) error {
	var err error
	s.DB, err = sqlx.ConnectContext(ctx, s.Driver, s.DSN)
	if err != nil {
		return errors.Wrapf(err, "connect %s database", s.Driver)
	}

	return nil
}

func (s *DatabaseService) Close() error {
	if s.DB == nil {
		return nil
	}

	return s.DB.Close()
}

// Upgrade applies the feature store migrations of the driver that are newer
// than the version recorded in the database.
func (s *DatabaseService) Upgrade(ctx context.Context) error {
	dialect, err := rockhopper.LoadDialect(s.Driver)
	if err != nil {
		return err
	}

	migrations, err := driverMigrations(s.Driver)
	if err != nil {
		return err
	}

	// sqlx.DB is different from sql.DB
	rh := rockhopper.New(s.Driver, dialect, s.DB.DB)

	currentVersion, err := rh.CurrentVersion()
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}

	log.Debugf("schema version %d, %d migrations known", currentVersion, len(migrations))

	if err := rockhopper.Up(ctx, rh, migrations, currentVersion, 0); err != nil {
		return errors.Wrap(err, "migrate feature store schema")
	}

	return nil
}

func driverMigrations(driver string) (rockhopper.MigrationSlice, error) {
	switch driver {
	case "mysql":
		return mysqlMigrations.Migrations(), nil
	case "postgres":
		return postgresMigrations.Migrations(), nil
	case "sqlite3":
		return sqlite3Migrations.Migrations(), nil
	}

	return nil, errors.Errorf("no migrations for database driver %q", driver)
}

func ReformatMysqlDSN(dsn string) (string, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	config.ParseTime = true
	dsn = config.FormatDSN()
	return dsn, nil
}
