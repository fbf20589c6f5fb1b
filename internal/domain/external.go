package domain

import (
	"context"
	"io"
)

// Database is the black-box SQL engine collaborator (spec.md §7): grammar,
// query planning and execution all live behind it. Operators only ever
// issue whole statements and read back rows or metadata.
type Database interface {
	Connect(ctx context.Context) (Connection, error)
}

// Connection is one session against a Database.
type Connection interface {
	// Execute runs a statement with no expected result rows (CREATE,
	// INSERT, SET, DROP, ...).
	Execute(ctx context.Context, sql string) error

	// Query runs a statement and returns its rows as a slice of
	// column-name-keyed maps; good enough for the small result sets this
	// project ever inspects directly (DESCRIBE output, count(*)).
	Query(ctx context.Context, sql string) ([]map[string]any, error)

	// Describe resolves a table or view's column shape and row count in
	// one call (spec.md §5's two-query DESCRIBE + count(*) resolution,
	// batched behind a single adapter call).
	Describe(ctx context.Context, name []string) (TableMetadata, error)

	Close(ctx context.Context) error
}

// Runtime is the black-box host collaborator that resolves import URLs to
// byte streams (file://, http(s)://, test://) and exposes environment
// configuration (spec.md §7).
type Runtime interface {
	Fetch(ctx context.Context, method ImportMethod, uri string) (io.ReadCloser, error)
	Getenv(key string) (string, bool)
}
