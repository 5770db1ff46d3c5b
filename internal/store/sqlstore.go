package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

// SQLStore implements Querier by opening a fresh connection for every
// statement and closing it before returning.
type SQLStore struct {
	driver string
	dsn    string
	logger *slog.Logger
}

// NewSQLStore creates a store for the given driver and DSN. Nothing is
// opened until the first statement runs.
func NewSQLStore(driver, dsn string, logger *slog.Logger) (*SQLStore, error) {
	switch driver {
	case DriverSQLServer, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{driver: driver, dsn: dsn, logger: logger}, nil
}

// open returns a single-connection handle scoped to one call.
func (s *SQLStore) open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", s.driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s db: %w", s.driver, err)
	}
	return db, nil
}

// Query runs query and returns every row keyed by column name.
func (s *SQLStore) Query(ctx context.Context, query string) ([]Row, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		s.logger.DebugContext(ctx, "sql query failed",
			slog.String("driver", s.driver), slog.Any("error", err))
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result = append(result, normalize(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return result, nil
}

// Exec runs a statement that produces no rows.
func (s *SQLStore) Exec(ctx context.Context, query string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, query); err != nil {
		s.logger.DebugContext(ctx, "sql exec failed",
			slog.String("driver", s.driver), slog.Any("error", err))
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

// normalize converts driver byte slices to strings so callers see text.
func normalize(row map[string]interface{}) Row {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return Row(row)
}
