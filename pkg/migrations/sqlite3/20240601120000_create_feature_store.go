package sqlite3

import (
	"context"

	"github.com/c9s/rockhopper"
)

func init() {
	AddMigration(upCreateFeatureStore, downCreateFeatureStore)
}

func upCreateFeatureStore(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	// This code is executed when the migration is applied.

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS instruments (
		instrument_id INTEGER PRIMARY KEY AUTOINCREMENT,
		exchange TEXT NOT NULL,
		symbol TEXT NOT NULL,
		UNIQUE (exchange, symbol)
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS ohlcv_bars (
		instrument_id INTEGER NOT NULL,
		timeframe TEXT NOT NULL,
		ts DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (instrument_id, timeframe, ts)
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS features (
		feature_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		params TEXT NOT NULL
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS bar_feature_values (
		instrument_id INTEGER NOT NULL,
		timeframe TEXT NOT NULL,
		ts DATETIME NOT NULL,
		feature_id INTEGER NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (instrument_id, timeframe, ts, feature_id)
	);`)
	if err != nil {
		return err
	}

	return err
}

func downCreateFeatureStore(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	// This code is executed when the migration is rolled back.

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS bar_feature_values;")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS features;")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS ohlcv_bars;")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS instruments;")
	if err != nil {
		return err
	}

	return err
}
