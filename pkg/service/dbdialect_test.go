package service

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
)

func TestGetDialect(t *testing.T) {
	assert.IsType(t, &MySQLDialect{}, GetDialect("mysql"))
	assert.IsType(t, &PostgreSQLDialect{}, GetDialect("postgres"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("sqlite3"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("unknown"))

	assert.Equal(t, sq.Dollar, GetDialect("postgres").Placeholder())
	assert.Equal(t, sq.Question, GetDialect("mysql").Placeholder())
}

func TestUpsertSuffix(t *testing.T) {
	key := []string{"instrument_id", "timeframe", "ts", "feature_id"}

	assert.Equal(t,
		"ON CONFLICT (instrument_id, timeframe, ts, feature_id) DO UPDATE SET value = excluded.value",
		GetDialect("postgres").UpsertSuffix(key, []string{"value"}))
	assert.Equal(t,
		"ON DUPLICATE KEY UPDATE value = VALUES(value)",
		GetDialect("mysql").UpsertSuffix(key, []string{"value"}))
	assert.Equal(t,
		"ON CONFLICT (exchange, symbol) DO NOTHING",
		GetDialect("sqlite3").UpsertSuffix([]string{"exchange", "symbol"}, nil))
	assert.Equal(t,
		"ON DUPLICATE KEY UPDATE exchange = exchange",
		GetDialect("mysql").UpsertSuffix([]string{"exchange", "symbol"}, nil))
}

func TestReformatMysqlDSN(t *testing.T) {
	dsn, err := ReformatMysqlDSN("root:secret@tcp(localhost:3306)/ssrl")
	assert.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDriverMigrations(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite3"} {
		migrations, err := driverMigrations(driver)
		assert.NoError(t, err, driver)
		if assert.Len(t, migrations, 1, driver) {
			assert.Equal(t, int64(20240601120000), migrations[0].Version, driver)
		}
	}

	_, err := driverMigrations("oracle")
	assert.Error(t, err)
}
