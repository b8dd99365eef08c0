package postgres

import (
	"context"
	"testing"

	"github.com/c9s/rockhopper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMigrationsMap(t *testing.T) {
	mm := GetMigrationsMap()
	require.Len(t, mm, 1)
	assert.Contains(t, mm, int64(20240601120000))
}

func TestMigrations(t *testing.T) {
	migrations := Migrations()
	require.Len(t, migrations, 1)
	assert.Equal(t, int64(20240601120000), migrations[0].Version)
	assert.True(t, migrations[0].UseTx)
	assert.NotNil(t, migrations[0].UpFn)
	assert.NotNil(t, migrations[0].DownFn)
}

func TestFileVersion(t *testing.T) {
	v, err := fileVersion("/src/20240601120000_create_feature_store.go")
	require.NoError(t, err)
	assert.Equal(t, int64(20240601120000), v)

	_, err = fileVersion("migration_api.go")
	assert.Error(t, err)

	_, err = fileVersion("create.go")
	assert.Error(t, err)
}

func TestAddNamedMigration_Conflict(t *testing.T) {
	noop := func(ctx context.Context, tx rockhopper.SQLExecutor) error { return nil }
	assert.Panics(t, func() {
		AddNamedMigration("20240601120000_again.go", noop, noop)
	})
}
