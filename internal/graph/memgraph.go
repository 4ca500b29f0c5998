package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/joss/ubo/internal/logging"
)

// Memgraph implements Driver for Memgraph (and Neo4j) over bolt.
type Memgraph struct {
	driver neo4j.DriverWithContext
	config Config
}

var _ Driver = (*Memgraph)(nil)

// NewMemgraph creates a new Memgraph driver. It does not dial; use Ping.
func NewMemgraph(cfg Config) (*Memgraph, error) {
	var auth neo4j.AuthToken
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	} else {
		auth = neo4j.NoAuth()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	return &Memgraph{
		driver: driver,
		config: cfg,
	}, nil
}

func (m *Memgraph) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return m.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: m.config.Database,
	})
}

// Execute runs a read query and returns results.
func (m *Memgraph) Execute(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := m.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var records []Record
	for result.Next(ctx) {
		rec := result.Record()
		record := make(Record, len(rec.Keys))
		for i, key := range rec.Keys {
			record[key] = rec.Values[i]
		}
		records = append(records, record)
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("result iteration failed: %w", err)
	}

	return records, nil
}

// ExecuteTx runs stmts in one managed write transaction. The driver retries
// the whole transaction on transient failures.
func (m *Memgraph) ExecuteTx(ctx context.Context, stmts []Statement) error {
	session := m.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, st := range stmts {
			result, err := tx.Run(ctx, st.Query, st.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i+1, err)
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("write transaction failed: %w", err)
	}
	return nil
}

// Close releases the database driver.
func (m *Memgraph) Close() error {
	return m.driver.Close(context.Background())
}

// Ping checks database connectivity.
func (m *Memgraph) Ping(ctx context.Context) error {
	return m.driver.VerifyConnectivity(ctx)
}

// Connect creates a driver and waits until it answers a ping, retrying with
// exponential backoff (100ms, 200ms, 400ms...).
func Connect(ctx context.Context, cfg Config, maxRetries int) (*Memgraph, error) {
	log := logging.New("graph")
	var lastErr error
	for i := 0; i < max(maxRetries, 1); i++ {
		mg, err := NewMemgraph(cfg)
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = mg.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			log.Info("graph_connected", map[string]any{"uri": cfg.URI, "attempts": i + 1})
			return mg, nil
		}
		mg.Close()

		if !IsConnectionError(lastErr) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(100<<i) * time.Millisecond):
		}
	}
	log.Warn("graph_unavailable", map[string]any{"uri": cfg.URI}, lastErr)
	return nil, fmt.Errorf("connect %s: %w", cfg.URI, lastErr)
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "EOF")
}
