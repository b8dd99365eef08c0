package service

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// DatabaseDialect provides database-specific SQL syntax
type DatabaseDialect interface {
	// Placeholder is the bind variable format of the driver
	Placeholder() sq.PlaceholderFormat

	// UpsertSuffix is appended to an INSERT so that a row hitting the conflict
	// columns updates updateColumns instead. No update columns means the
	// existing row is kept as is.
	UpsertSuffix(conflictColumns, updateColumns []string) string
}

// GetDialect returns the appropriate dialect for the given driver name
func GetDialect(driverName string) DatabaseDialect {
	switch driverName {
	case "mysql":
		return &MySQLDialect{}
	case "postgres":
		return &PostgreSQLDialect{}
	case "sqlite3":
		return &SQLiteDialect{}
	default:
		return &SQLiteDialect{} // default fallback
	}
}

// onConflictSuffix is the ON CONFLICT clause shared by PostgreSQL and SQLite.
func onConflictSuffix(conflictColumns, updateColumns []string) string {
	target := strings.Join(conflictColumns, ", ")
	if len(updateColumns) == 0 {
		return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", target)
	}

	sets := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}

	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", target, strings.Join(sets, ", "))
}

// MySQLDialect implements MySQL-specific SQL syntax
type MySQLDialect struct{}

func (d *MySQLDialect) Placeholder() sq.PlaceholderFormat {
	// MySQL uses default placeholder format (?)
	return sq.Question
}

func (d *MySQLDialect) UpsertSuffix(conflictColumns, updateColumns []string) string {
	if len(updateColumns) == 0 {
		// a self assignment keeps the row untouched
		c := conflictColumns[0]
		return fmt.Sprintf("ON DUPLICATE KEY UPDATE %s = %s", c, c)
	}

	sets := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
	}

	return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

// PostgreSQLDialect implements PostgreSQL-specific SQL syntax
type PostgreSQLDialect struct{}

func (d *PostgreSQLDialect) Placeholder() sq.PlaceholderFormat {
	return sq.Dollar
}

func (d *PostgreSQLDialect) UpsertSuffix(conflictColumns, updateColumns []string) string {
	return onConflictSuffix(conflictColumns, updateColumns)
}

// SQLiteDialect implements SQLite-specific SQL syntax
type SQLiteDialect struct{}

func (d *SQLiteDialect) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}

func (d *SQLiteDialect) UpsertSuffix(conflictColumns, updateColumns []string) string {
	return onConflictSuffix(conflictColumns, updateColumns)
}
