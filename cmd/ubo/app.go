package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/config"
	"github.com/joss/ubo/internal/index"
	"github.com/joss/ubo/internal/loader"
	"github.com/joss/ubo/internal/logging"
	"github.com/joss/ubo/internal/render"
)

// flags holds raw persistent flag values before config resolution.
type flags struct {
	configFile string
	source     config.Source
	levels     int
	json       bool
	pretty     bool
	logLevel   string
	logFormat  string
}

// app carries per-invocation state shared by every command.
type app struct {
	flags    flags
	settings config.Settings
	out      io.Writer
	log      *logging.Logger
	render   *render.Renderer
	src      loader.Source
}

func (a *app) bindFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "YAML config file (default $UBO_CONFIG)")
	pf.StringVar(&a.flags.source.Kind, "source", "", "record source: csv, sqlite, memgraph or postgres")
	pf.StringVar(&a.flags.source.Ownership, "ownership", "", "ownership CSV glob or table")
	pf.StringVar(&a.flags.source.Parentship, "parentship", "", "parentship CSV glob or table")
	pf.StringVar(&a.flags.source.DSN, "dsn", "", "database file, URL or bolt URI")
	pf.IntVarP(&a.flags.levels, "levels", "l", 0, "maximum traversal depth (default $UBO_LEVELS or 3)")
	pf.BoolVar(&a.flags.json, "json", false, "Output as JSON")
	pf.BoolVar(&a.flags.pretty, "pretty", false, "Pretty print output (default when stdout is a terminal)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "text or json")
}

// setup resolves settings and configures logging and rendering.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env", config.GetPaths().EnvFile); err != nil {
		return err
	}
	config.ResetEnv()

	var file *config.File
	path := a.flags.configFile
	if path == "" {
		path = config.Env().ConfigFile
	}
	if path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		file = f
	}

	overrides := config.File{
		Source: a.flags.source,
		Log:    config.Log{Level: a.flags.logLevel, Format: a.flags.logFormat},
	}
	if cmd.Flags().Changed("levels") {
		overrides.Levels = &a.flags.levels
	}
	s, err := config.Resolve(file, overrides)
	if err != nil {
		return err
	}
	a.settings = s

	format, err := logging.ParseFormat(s.Log.Format)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{
		Level:  logging.ParseLevel(s.Log.Level),
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	ctx := logging.WithRunID(cmd.Context(), "")
	cmd.SetContext(ctx)
	a.log = logging.New("cli").WithContext(ctx)

	a.out = cmd.OutOrStdout()
	pretty := a.flags.pretty
	if !cmd.Flags().Changed("pretty") {
		pretty = a.out == os.Stdout && render.IsTerminal(os.Stdout)
	}
	render.SetColor(pretty)
	a.render = render.New(pretty)
	return nil
}

func (a *app) close() {
	if a.src != nil {
		if err := a.src.Close(); err != nil {
			a.log.Warn("source_close_failed", nil, err)
		}
		a.src = nil
	}
}

// target picks the company argument, falling back to the configured target.
func (a *app) target(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.settings.Target != "" {
		return a.settings.Target, nil
	}
	return "", fmt.Errorf("no company given and no target configured")
}

// emit writes v as JSON when --json is set, otherwise the rendered text.
func (a *app) emit(v any, text func() string) error {
	if a.flags.json {
		return render.JSON(a.out, v)
	}
	render.NewWriter(a.out).Block(text())
	return nil
}

// engine is a loaded dataset with both indexes built over it.
type engine struct {
	source  string
	dataset *loader.Dataset
	owners  *index.OwnershipIndex
	parents *index.ParentshipIndex
}

// companies is the number of distinct companies across both relations.
func (e *engine) companies() int {
	all := append(e.owners.Companies(), e.parents.Companies()...)
	slices.Sort(all)
	return len(slices.Compact(all))
}

func (a *app) openSource(ctx context.Context) (loader.Source, error) {
	if a.src == nil {
		src, err := loader.Open(ctx, a.settings.Source)
		if err != nil {
			return nil, err
		}
		a.src = src
	}
	return a.src, nil
}

func (a *app) loadEngine(ctx context.Context) (*engine, error) {
	start := time.Now()
	src, err := a.openSource(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	opt := index.WithLogger(logging.New("index").WithContext(ctx))
	e := &engine{
		source:  src.Name(),
		dataset: ds,
		owners:  index.NewOwnershipIndex(ds.Ownerships, opt),
		parents: index.NewParentshipIndex(ds.Parentships, opt),
	}
	a.log.TimedEvent("engine_ready", start, map[string]any{"source": e.source})
	return e, nil
}
