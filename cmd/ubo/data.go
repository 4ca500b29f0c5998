package main

import (
	"cmp"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/config"
	"github.com/joss/ubo/internal/graph"
	"github.com/joss/ubo/internal/loader"
	"github.com/joss/ubo/internal/render"
)

// ubo import --to sqlite|memgraph|csv [--out path]
func importCmd(a *app) *cobra.Command {
	var to, out string

	cmd := newCommand(a, CommandConfig{
		Use:   "import",
		Short: "Copy the configured source into SQLite, Memgraph or CSV",
		Long: `Load every record from the configured source and write it to
another store, replacing what the destination held before.

  --to sqlite    --out is the database file (default $UBO_SQLITE_PATH)
  --to memgraph  --out is the bolt URI (default $NEO4J_URI)
  --to csv       --out is a directory receiving p2c.csv and c2c.csv`,
		Example: "  ubo import --ownership 'data/p2c*.csv' --parentship data/c2c.csv --to sqlite",
		Args:    cobra.NoArgs,
		Action:  "import",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := a.openSource(ctx)
			if err != nil {
				return err
			}
			ds, err := src.Load(ctx)
			if err != nil {
				return err
			}

			var dest string
			switch to {
			case config.KindSQLite:
				dest = cmp.Or(out, config.Env().SQLitePath)
				store, err := loader.OpenSQLite(dest, loader.Tables{})
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(ctx, ds); err != nil {
					return err
				}
			case config.KindMemgraph:
				cfg := graph.ConfigFromEnv().WithURI(out)
				dest = cfg.URI
				drv, err := graph.Connect(ctx, cfg, 3)
				if err != nil {
					return err
				}
				gs := loader.NewGraphSource(drv, dest)
				defer gs.Close()
				if err := gs.Save(ctx, ds); err != nil {
					return err
				}
			case config.KindCSV:
				if out == "" {
					return fmt.Errorf("--to csv needs --out <dir>")
				}
				if err := config.EnsureDir(out); err != nil {
					return err
				}
				dest = out
				if err := loader.WriteCSV(ds, filepath.Join(out, "p2c.csv"), filepath.Join(out, "c2c.csv")); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: cannot import into %q", loader.ErrUnknownKind, to)
			}

			summary := map[string]any{
				"from":        src.Name(),
				"to":          to,
				"destination": dest,
				"ownerships":  len(ds.Ownerships),
				"parentships": len(ds.Parentships),
			}
			a.log.Info("dataset_imported", summary)
			return a.emit(summary, func() string {
				return fmt.Sprintf("imported %d ownerships and %d parentships into %s %s",
					len(ds.Ownerships), len(ds.Parentships), to, dest)
			})
		},
	})
	cmd.Flags().StringVar(&to, "to", config.KindSQLite, "destination: sqlite, memgraph or csv")
	cmd.Flags().StringVar(&out, "out", "", "destination file, URI or directory")
	return cmd
}

// ubo stats
func statsCmd(a *app) *cobra.Command {
	return newCommand(a, CommandConfig{
		Use:    "stats",
		Short:  "Show dataset and index sizes",
		Args:   cobra.NoArgs,
		Action: "stats",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			st := render.Stats{
				Source:         e.source,
				Ownerships:     e.owners.Len(),
				Persons:        len(e.owners.Persons()),
				OwnedCompanies: len(e.owners.Companies()),
				Parentships:    e.parents.Len(),
				GroupCompanies: len(e.parents.Companies()),
			}
			return a.emit(st, func() string { return a.render.Stats(st) })
		},
	})
}
