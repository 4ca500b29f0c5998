package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joss/ubo/internal/domain"
)

// Column headers expected in CSV input.
var (
	ownershipColumns  = []string{"person", "company", "share"}
	parentshipColumns = []string{"c1", "c2", "share"}
)

// CSVSource reads records from CSV files with a header row. Both locations
// are doublestar globs, so a relation may be split over several files.
type CSVSource struct {
	Ownership  string
	Parentship string
}

// NewCSVSource creates a CSV source for the given globs.
func NewCSVSource(ownership, parentship string) *CSVSource {
	return &CSVSource{Ownership: ownership, Parentship: parentship}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Close() error { return nil }

// Load reads every matching file of both relations.
func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	return loadBoth(ctx, s.Name(),
		func(ctx context.Context) ([]domain.Ownership, error) {
			return readGlob(ctx, s.Ownership, ownershipColumns, func(row []string) (domain.Ownership, error) {
				share, err := parseShare(row[2])
				if err != nil {
					return domain.Ownership{}, err
				}
				return OwnershipRecord{Person: row[0], Company: row[1], Share: share}.toDomain()
			})
		},
		func(ctx context.Context) ([]domain.Parentship, error) {
			return readGlob(ctx, s.Parentship, parentshipColumns, func(row []string) (domain.Parentship, error) {
				share, err := parseShare(row[2])
				if err != nil {
					return domain.Parentship{}, err
				}
				return ParentshipRecord{C1: row[0], C2: row[1], Share: share}.toDomain()
			})
		},
	)
}

func parseShare(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: share %q is not a number", ErrInvalidRecord, s)
	}
	return v, nil
}

// readGlob reads all files matching pattern in lexical order. An empty
// pattern yields no records.
func readGlob[T any](ctx context.Context, pattern string, columns []string, parse func([]string) (T, error)) ([]T, error) {
	if pattern == "" {
		return nil, nil
	}
	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("glob %q: %w", pattern, os.ErrNotExist)
	}
	slices.Sort(files)

	var out []T
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readFile(f, columns, parse)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func readFile[T any](path string, columns []string, parse func([]string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(path, f, columns, parse)
}

// readCSV maps the header onto columns, so extra or reordered columns are
// fine. Blank ids and unparseable shares fail with a RecordError.
func readCSV[T any](name string, r io.Reader, columns []string, parse func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &RecordError{Source: name, Err: err}
	}

	idx := make([]int, len(columns))
	for i, col := range columns {
		idx[i] = slices.IndexFunc(header, func(h string) bool {
			return strings.EqualFold(strings.TrimSpace(h), col)
		})
		if idx[i] < 0 {
			return nil, &RecordError{Source: name, Line: 1, Err: fmt.Errorf("%w: missing column %q", ErrInvalidRecord, col)}
		}
	}

	var out []T
	row := make([]string, len(columns))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			// csv.ParseError carries its own position.
			return nil, &RecordError{Source: name, Err: err}
		}
		line, _ := cr.FieldPos(0)
		for i, j := range idx {
			row[i] = strings.TrimSpace(rec[j])
		}
		v, err := parse(row)
		if err != nil {
			return nil, &RecordError{Source: name, Line: line, Err: err}
		}
		out = append(out, v)
	}
}

// WriteCSV writes a dataset as two CSV files with the standard headers.
func WriteCSV(ds *Dataset, ownershipPath, parentshipPath string) error {
	own := make([][]string, 0, len(ds.Ownerships))
	for _, o := range ds.Ownerships {
		own = append(own, []string{o.Person, o.Company, strconv.FormatFloat(o.Share, 'g', -1, 64)})
	}
	if err := writeFile(ownershipPath, ownershipColumns, own); err != nil {
		return err
	}

	par := make([][]string, 0, len(ds.Parentships))
	for _, p := range ds.Parentships {
		par = append(par, []string{p.Parent, p.Child, strconv.FormatFloat(p.Share, 'g', -1, 64)})
	}
	return writeFile(parentshipPath, parentshipColumns, par)
}

func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
