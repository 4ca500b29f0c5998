package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joss/ubo/internal/domain"
)

// PostgresSource reads records from two Postgres tables shaped like the
// SQLite ones: (person, company, share) and (c1, c2, share).
type PostgresSource struct {
	pool   *pgxpool.Pool
	tables Tables
}

var _ Source = (*PostgresSource)(nil)

// OpenPostgres connects a pool to dsn and checks it answers.
func OpenPostgres(ctx context.Context, dsn string, tables Tables) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSource{pool: pool, tables: tables.withDefaults()}, nil
}

func (s *PostgresSource) Name() string { return "postgres" }

// Close closes the pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

// Load reads both tables on separate pooled connections.
func (s *PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	return loadBoth(ctx, s.Name(), s.ownerships, s.parentships)
}

func (s *PostgresSource) ownerships(ctx context.Context) ([]domain.Ownership, error) {
	table := pgx.Identifier{s.tables.Ownership}.Sanitize()
	rows, err := s.pool.Query(ctx, "SELECT person, company, share::float8 FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.tables.Ownership, err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[OwnershipRecord])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.tables.Ownership, err)
	}

	out := make([]domain.Ownership, 0, len(recs))
	for i, r := range recs {
		o, err := r.toDomain()
		if err != nil {
			return nil, &RecordError{Source: s.tables.Ownership, Line: i + 1, Err: err}
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *PostgresSource) parentships(ctx context.Context) ([]domain.Parentship, error) {
	table := pgx.Identifier{s.tables.Parentship}.Sanitize()
	rows, err := s.pool.Query(ctx, "SELECT c1, c2, share::float8 FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.tables.Parentship, err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ParentshipRecord])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.tables.Parentship, err)
	}

	out := make([]domain.Parentship, 0, len(recs))
	for i, r := range recs {
		p, err := r.toDomain()
		if err != nil {
			return nil, &RecordError{Source: s.tables.Parentship, Line: i + 1, Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}
