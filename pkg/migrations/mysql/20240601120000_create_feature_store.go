package mysql

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
		instrument_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		exchange VARCHAR(32) NOT NULL,
		symbol VARCHAR(32) NOT NULL,
		UNIQUE KEY uniq_instrument (exchange, symbol)
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS ohlcv_bars (
		instrument_id BIGINT UNSIGNED NOT NULL,
		timeframe VARCHAR(8) NOT NULL,
		ts DATETIME(3) NOT NULL,
		open DOUBLE NOT NULL,
		high DOUBLE NOT NULL,
		low DOUBLE NOT NULL,
		close DOUBLE NOT NULL,
		volume DOUBLE NOT NULL,
		PRIMARY KEY (instrument_id, timeframe, ts)
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS features (
		feature_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		description TEXT NOT NULL,
		params TEXT NOT NULL,
		UNIQUE KEY uniq_feature_name (name)
	);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS bar_feature_values (
		instrument_id BIGINT UNSIGNED NOT NULL,
		timeframe VARCHAR(8) NOT NULL,
		ts DATETIME(3) NOT NULL,
		feature_id BIGINT UNSIGNED NOT NULL,
		value DOUBLE NOT NULL,
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
