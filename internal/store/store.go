package store

import "context"

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// Querier executes literal SQL text against the tracker database.
// Each call is independent; implementations must not share connections
// between calls.
type Querier interface {
	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string) ([]Row, error)

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string) error
}
