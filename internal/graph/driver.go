// Package graph wraps the bolt driver used to read and write ownership
// graphs in Memgraph or Neo4j.
package graph

import (
	"context"

	"github.com/joss/ubo/internal/config"
)

// Record represents a single result row from a query.
type Record map[string]any

// Reader runs read-only queries.
type Reader interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// Statement is one query and its parameters.
type Statement struct {
	Query  string
	Params map[string]any
}

// Writer runs write queries (CREATE, MERGE, SET, DELETE).
type Writer interface {
	// ExecuteTx runs stmts in order inside one transaction. Either every
	// statement is committed or none is.
	ExecuteTx(ctx context.Context, stmts []Statement) error
}

// Driver is the full graph database interface.
type Driver interface {
	Reader
	Writer

	// Close releases database resources.
	Close() error

	// Ping checks if the database is reachable.
	Ping(ctx context.Context) error
}

// Config holds database connection configuration.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// ConfigFromEnv builds a Config from the process environment.
func ConfigFromEnv() Config {
	e := config.Env()
	return Config{
		URI:      e.Neo4jURI,
		Username: e.Neo4jUser,
		Password: e.Neo4jPassword,
		Database: e.Neo4jDatabase,
	}
}

// WithURI returns a copy of c pointing at uri. An empty uri keeps c.URI.
func (c Config) WithURI(uri string) Config {
	if uri != "" {
		c.URI = uri
	}
	return c
}
