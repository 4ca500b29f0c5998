// Package loader reads ownership and parentship records from CSV files,
// SQLite, Postgres or a graph database, and writes them back for import.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/joss/ubo/internal/config"
	"github.com/joss/ubo/internal/domain"
	"github.com/joss/ubo/internal/graph"
	"github.com/joss/ubo/internal/logging"
)

// Dataset is the full input of the engine.
type Dataset struct {
	Ownerships  []domain.Ownership
	Parentships []domain.Parentship
}

// Empty reports whether the dataset has no records at all.
func (d *Dataset) Empty() bool {
	return len(d.Ownerships) == 0 && len(d.Parentships) == 0
}

// Source produces a Dataset.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Dataset, error)
	Close() error
}

// Saver persists a Dataset.
type Saver interface {
	Save(ctx context.Context, ds *Dataset) error
}

// OwnershipRecord is one raw person-to-company row.
type OwnershipRecord struct {
	Person  string `validate:"required"`
	Company string `validate:"required"`
	Share   float64
}

// ParentshipRecord is one raw company-to-company row; C1 holds a share of C2.
type ParentshipRecord struct {
	C1    string `validate:"required"`
	C2    string `validate:"required"`
	Share float64
}

var validate = validator.New()

func (r OwnershipRecord) toDomain() (domain.Ownership, error) {
	if err := validateRecord(r); err != nil {
		return domain.Ownership{}, err
	}
	return domain.Ownership{Person: r.Person, Company: r.Company, Share: r.Share}, nil
}

func (r ParentshipRecord) toDomain() (domain.Parentship, error) {
	if err := validateRecord(r); err != nil {
		return domain.Parentship{}, err
	}
	return domain.Parentship{Parent: r.C1, Child: r.C2, Share: r.Share}, nil
}

func validateRecord(r any) error {
	err := validate.Struct(r)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, ", "))
	}
	return err
}

// Open builds the Source described by cfg.
func Open(ctx context.Context, cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case config.KindCSV:
		return NewCSVSource(cfg.Ownership, cfg.Parentship), nil
	case config.KindSQLite:
		return OpenSQLite(cfg.DSN, Tables{Ownership: cfg.Ownership, Parentship: cfg.Parentship})
	case config.KindPostgres:
		return OpenPostgres(ctx, cfg.DSN, Tables{Ownership: cfg.Ownership, Parentship: cfg.Parentship})
	case config.KindMemgraph:
		drv, err := graph.Connect(ctx, graph.ConfigFromEnv().WithURI(cfg.DSN), 3)
		if err != nil {
			return nil, err
		}
		return NewGraphSource(drv, cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// Tables names the two relations in a SQL source.
type Tables struct {
	Ownership  string
	Parentship string
}

func (t Tables) withDefaults() Tables {
	if t.Ownership == "" {
		t.Ownership = config.DefaultOwnershipTable
	}
	if t.Parentship == "" {
		t.Parentship = config.DefaultParentshipTable
	}
	return t
}

type (
	ownershipFunc  func(ctx context.Context) ([]domain.Ownership, error)
	parentshipFunc func(ctx context.Context) ([]domain.Parentship, error)
)

// loadBoth fetches both relations concurrently and logs the result.
func loadBoth(ctx context.Context, name string, own ownershipFunc, par parentshipFunc) (*Dataset, error) {
	log := logging.New("loader").WithContext(ctx).With("source", name)
	start := time.Now()

	var ds Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds.Ownerships, err = own(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Parentships, err = par(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("load_failed", nil, err)
		return nil, err
	}

	if ds.Empty() {
		log.Warn("load_empty", nil, ErrNoRecords)
		return nil, fmt.Errorf("%s: %w", name, ErrNoRecords)
	}

	log.TimedEvent("dataset_loaded", start, map[string]any{
		"ownerships":  len(ds.Ownerships),
		"parentships": len(ds.Parentships),
	})
	return &ds, nil
}
