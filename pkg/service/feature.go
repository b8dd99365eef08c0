package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ssrl/fastind/pkg/features"
	"github.com/ssrl/fastind/pkg/types"
)

var ErrInstrumentNotFound = errors.New("instrument not found")

// ValueBatchSize is the number of feature values sent in one INSERT statement.
const ValueBatchSize = 5000

var (
	barColumns   = []string{"instrument_id", "timeframe", "ts", "open", "high", "low", "close", "volume"}
	barKey       = []string{"instrument_id", "timeframe", "ts"}
	valueColumns = []string{"instrument_id", "timeframe", "ts", "feature_id", "value"}
	valueKey     = []string{"instrument_id", "timeframe", "ts", "feature_id"}
)

// FeatureService persists bars, feature definitions and long-form feature values.
type FeatureService struct {
	DB *sqlx.DB
}

func (s *FeatureService) dialect() DatabaseDialect {
	return GetDialect(s.DB.DriverName())
}

func (s *FeatureService) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(s.dialect().Placeholder())
}

// InstrumentID returns the id of the instrument traded as symbol on exchange.
func (s *FeatureService) InstrumentID(ctx context.Context, exchange, symbol string) (int64, error) {
	query, args, err := s.builder().
		Select("instrument_id").
		From("instruments").
		Where(sq.Eq{"exchange": exchange, "symbol": symbol}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.DB.GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.Wrapf(ErrInstrumentNotFound, "%s %s", exchange, symbol)
		}
		return 0, err
	}

	return id, nil
}

// EnsureInstrument registers the instrument when it is missing and returns its id.
func (s *FeatureService) EnsureInstrument(ctx context.Context, exchange, symbol string) (int64, error) {
	query, args, err := s.builder().
		Insert("instruments").
		Columns("exchange", "symbol").
		Values(exchange, symbol).
		Suffix(s.dialect().UpsertSuffix([]string{"exchange", "symbol"}, nil)).
		ToSql()
	if err != nil {
		return 0, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return 0, errors.Wrapf(err, "register instrument %s %s", exchange, symbol)
	}

	return s.InstrumentID(ctx, exchange, symbol)
}

// QueryBars returns the bars of the instrument ordered by time. A nil start or
// end leaves that side of the range open.
func (s *FeatureService) QueryBars(ctx context.Context, instrumentID int64, timeframe string, start, end *time.Time) ([]types.Bar, error) {
	sel := s.builder().
		Select("ts", "open", "high", "low", "close", "volume").
		From("ohlcv_bars").
		Where(sq.Eq{"instrument_id": instrumentID, "timeframe": timeframe})

	if start != nil {
		sel = sel.Where(sq.GtOrEq{"ts": *start})
	}
	if end != nil {
		sel = sel.Where(sq.LtOrEq{"ts": *end})
	}

	query, args, err := sel.OrderBy("ts ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var bars []types.Bar
	if err := s.DB.SelectContext(ctx, &bars, query, args...); err != nil {
		return nil, errors.Wrap(err, "query bars")
	}

	return bars, nil
}

// InsertBars upserts bars of the instrument in one transaction.
func (s *FeatureService) InsertBars(ctx context.Context, instrumentID int64, timeframe string, bars []types.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	suffix := s.dialect().UpsertSuffix(barKey, []string{"open", "high", "low", "close", "volume"})
	// 8 columns per bar, stay well below the bind variable limit of the drivers
	batchSize := ValueBatchSize / 2
	for from := 0; from < len(bars); from += batchSize {
		to := from + batchSize
		if to > len(bars) {
			to = len(bars)
		}

		ins := s.builder().Insert("ohlcv_bars").Columns(barColumns...)
		for _, b := range bars[from:to] {
			ins = ins.Values(instrumentID, timeframe, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume)
		}

		query, args, err := ins.Suffix(suffix).ToSql()
		if err != nil {
			return 0, rollback(tx, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, rollback(tx, errors.Wrap(err, "insert bars"))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(bars), nil
}

// UpsertDefinitions makes sure every definition exists and returns the
// feature id of each name.
func (s *FeatureService) UpsertDefinitions(ctx context.Context, defs []features.Definition) (map[string]int64, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	suffix := s.dialect().UpsertSuffix([]string{"name"}, []string{"description", "params"})
	ids := make(map[string]int64, len(defs))
	for _, def := range defs {
		params, err := json.Marshal(def.Params)
		if err != nil {
			return nil, rollback(tx, errors.Wrapf(err, "encode params of %s", def.Name))
		}

		query, args, err := s.builder().
			Insert("features").
			Columns("name", "description", "params").
			Values(def.Name, def.Description, string(params)).
			Suffix(suffix).
			ToSql()
		if err != nil {
			return nil, rollback(tx, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, rollback(tx, errors.Wrapf(err, "upsert feature %s", def.Name))
		}

		query, args, err = s.builder().
			Select("feature_id").
			From("features").
			Where(sq.Eq{"name": def.Name}).
			ToSql()
		if err != nil {
			return nil, rollback(tx, err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			return nil, rollback(tx, errors.Wrapf(err, "query feature id of %s", def.Name))
		}

		ids[def.Name] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return ids, nil
}

// WriteValues upserts long-form feature values in batches of ValueBatchSize.
// Values of features missing from ids are skipped. It returns the number of
// values written; nothing is written when any batch fails.
func (s *FeatureService) WriteValues(ctx context.Context, values []features.Value, ids map[string]int64) (int, error) {
	rows := make([][]interface{}, 0, len(values))
	for _, v := range values {
		fid, ok := ids[v.Feature]
		if !ok {
			continue
		}

		rows = append(rows, []interface{}{v.InstrumentID, v.Timeframe, v.Time, fid, v.Value})
	}

	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	suffix := s.dialect().UpsertSuffix(valueKey, []string{"value"})
	for from := 0; from < len(rows); from += ValueBatchSize {
		to := from + ValueBatchSize
		if to > len(rows) {
			to = len(rows)
		}

		ins := s.builder().Insert("bar_feature_values").Columns(valueColumns...)
		for _, r := range rows[from:to] {
			ins = ins.Values(r...)
		}

		query, args, err := ins.Suffix(suffix).ToSql()
		if err != nil {
			return 0, rollback(tx, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, rollback(tx, errors.Wrap(err, "upsert feature values"))
		}

		log.Debugf("upserted feature values %d-%d of %d", from, to, len(rows))
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// QueryValues returns the stored feature values of the instrument within
// [start, end], ordered by time and feature name.
func (s *FeatureService) QueryValues(ctx context.Context, instrumentID int64, timeframe string, start, end time.Time) ([]features.Value, error) {
	query, args, err := s.builder().
		Select("v.instrument_id", "v.timeframe", "v.ts", "f.name", "v.value").
		From("bar_feature_values v").
		Join("features f ON f.feature_id = v.feature_id").
		Where(sq.Eq{"v.instrument_id": instrumentID, "v.timeframe": timeframe}).
		Where(sq.GtOrEq{"v.ts": start}).
		Where(sq.LtOrEq{"v.ts": end}).
		OrderBy("v.ts ASC", "f.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var values []features.Value
	if err := s.DB.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, errors.Wrap(err, "query feature values")
	}

	return values, nil
}

// LastBarTimes returns the times of the latest limit bars in ascending order.
func (s *FeatureService) LastBarTimes(ctx context.Context, instrumentID int64, timeframe string, limit uint64) ([]time.Time, error) {
	query, args, err := s.builder().
		Select("ts").
		From("ohlcv_bars").
		Where(sq.Eq{"instrument_id": instrumentID, "timeframe": timeframe}).
		OrderBy("ts DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}

	var times []time.Time
	if err := s.DB.SelectContext(ctx, &times, query, args...); err != nil {
		return nil, errors.Wrap(err, "query bar times")
	}

	for i, j := 0, len(times)-1; i < j; i, j = i+1, j-1 {
		times[i], times[j] = times[j], times[i]
	}

	return times, nil
}

func rollback(tx *sqlx.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		log.WithError(rbErr).Error("rollback error")
	}

	return err
}
