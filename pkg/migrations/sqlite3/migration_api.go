package sqlite3

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/c9s/rockhopper"
	"github.com/pkg/errors"
)

var registeredGoMigrations map[int64]*rockhopper.Migration

// GetMigrationsMap returns the migrations registered by this package, keyed by version.
func GetMigrationsMap() map[int64]*rockhopper.Migration {
	return registeredGoMigrations
}

// Migrations returns the registered migrations sorted by version and linked
// to each other.
func Migrations() rockhopper.MigrationSlice {
	var migrations = rockhopper.MigrationSlice{}
	for _, migration := range registeredGoMigrations {
		migrations = append(migrations, migration)
	}

	return migrations.SortAndConnect()
}

// AddMigration registers a migration whose version is the numeric prefix of
// the calling file name.
func AddMigration(up, down rockhopper.TransactionHandler) {
	_, filename, _, _ := runtime.Caller(1)
	AddNamedMigration(filename, up, down)
}

func AddNamedMigration(filename string, up, down rockhopper.TransactionHandler) {
	if registeredGoMigrations == nil {
		registeredGoMigrations = make(map[int64]*rockhopper.Migration)
	}

	v, err := fileVersion(filename)
	if err != nil {
		panic(err)
	}

	migration := &rockhopper.Migration{
		Registered: true,

		Version: v,
		UpFn:    up,
		DownFn:  down,
		Source:  filename,
		UseTx:   true,
	}

	if existing, ok := registeredGoMigrations[v]; ok {
		panic(fmt.Sprintf("failed to add migration %q: version conflicts with %q", filename, existing.Source))
	}

	registeredGoMigrations[v] = migration
}

func fileVersion(filename string) (int64, error) {
	base := filepath.Base(filename)
	idx := strings.Index(base, "_")
	if idx < 0 {
		return 0, errors.Errorf("migration file %q has no version prefix", base)
	}

	v, err := strconv.ParseInt(base[:idx], 10, 64)
	if err != nil || v < 1 {
		return 0, errors.Errorf("migration file %q has an invalid version prefix", base)
	}

	return v, nil
}
