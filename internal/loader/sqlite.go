package loader

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joss/ubo/internal/config"
	"github.com/joss/ubo/internal/domain"
)

// SQLiteStore keeps a dataset in a SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	tables Tables
}

var (
	_ Source = (*SQLiteStore)(nil)
	_ Saver  = (*SQLiteStore)(nil)
)

// OpenSQLite opens (creating if needed) the database at path and migrates
// the schema.
func OpenSQLite(path string, tables Tables) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := config.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A second connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path, tables: tables.withDefaults()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		person TEXT NOT NULL,
		company TEXT NOT NULL,
		share REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[3]s_company ON %[1]s(company);
	CREATE INDEX IF NOT EXISTS idx_%[3]s_person ON %[1]s(person);

	CREATE TABLE IF NOT EXISTS %[2]s (
		c1 TEXT NOT NULL,
		c2 TEXT NOT NULL,
		share REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[4]s_c1 ON %[2]s(c1);
	CREATE INDEX IF NOT EXISTS idx_%[4]s_c2 ON %[2]s(c2);
	`, quoteIdent(s.tables.Ownership), quoteIdent(s.tables.Parentship),
		indexSuffix(s.tables.Ownership), indexSuffix(s.tables.Parentship))

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Name() string { return "sqlite:" + s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads both tables.
func (s *SQLiteStore) Load(ctx context.Context) (*Dataset, error) {
	return loadBoth(ctx, s.Name(), s.ownerships, s.parentships)
}

func (s *SQLiteStore) ownerships(ctx context.Context) ([]domain.Ownership, error) {
	q := fmt.Sprintf("SELECT person, company, share FROM %s ORDER BY rowid", quoteIdent(s.tables.Ownership))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.tables.Ownership, err)
	}
	defer rows.Close()

	var out []domain.Ownership
	for line := 1; rows.Next(); line++ {
		var r OwnershipRecord
		if err := rows.Scan(&r.Person, &r.Company, &r.Share); err != nil {
			return nil, &RecordError{Source: s.tables.Ownership, Line: line, Err: err}
		}
		o, err := r.toDomain()
		if err != nil {
			return nil, &RecordError{Source: s.tables.Ownership, Line: line, Err: err}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) parentships(ctx context.Context) ([]domain.Parentship, error) {
	q := fmt.Sprintf("SELECT c1, c2, share FROM %s ORDER BY rowid", quoteIdent(s.tables.Parentship))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.tables.Parentship, err)
	}
	defer rows.Close()

	var out []domain.Parentship
	for line := 1; rows.Next(); line++ {
		var r ParentshipRecord
		if err := rows.Scan(&r.C1, &r.C2, &r.Share); err != nil {
			return nil, &RecordError{Source: s.tables.Parentship, Line: line, Err: err}
		}
		p, err := r.toDomain()
		if err != nil {
			return nil, &RecordError{Source: s.tables.Parentship, Line: line, Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Save replaces the contents of both tables with ds in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	own := quoteIdent(s.tables.Ownership)
	par := quoteIdent(s.tables.Parentship)
	for _, q := range []string{"DELETE FROM " + own, "DELETE FROM " + par} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	ownStmt, err := tx.PrepareContext(ctx, "INSERT INTO "+own+" (person, company, share) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer ownStmt.Close()
	for _, o := range ds.Ownerships {
		if _, err := ownStmt.ExecContext(ctx, o.Person, o.Company, o.Share); err != nil {
			return fmt.Errorf("insert ownership %s: %w", o, err)
		}
	}

	parStmt, err := tx.PrepareContext(ctx, "INSERT INTO "+par+" (c1, c2, share) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer parStmt.Close()
	for _, p := range ds.Parentships {
		if _, err := parStmt.ExecContext(ctx, p.Parent, p.Child, p.Share); err != nil {
			return fmt.Errorf("insert parentship %s: %w", p, err)
		}
	}

	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func indexSuffix(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
}
