package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	KindCSV      = "csv"
	KindSQLite   = "sqlite"
	KindMemgraph = "memgraph"
	KindPostgres = "postgres"
)

// Default table names for the sqlite and postgres sources.
const (
	DefaultOwnershipTable  = "p2c"
	DefaultParentshipTable = "c2c"
)

// Source describes where ownership and parentship records come from.
//
// For csv, Ownership and Parentship are file globs. For sqlite and postgres
// they are table names and DSN is the file path or connection URL. For
// memgraph, DSN is the bolt URI and the table fields are unused.
type Source struct {
	Kind       string `yaml:"kind" validate:"required,oneof=csv sqlite memgraph postgres"`
	Ownership  string `yaml:"ownership" validate:"required_if=Kind csv"`
	Parentship string `yaml:"parentship" validate:"required_if=Kind csv"`
	DSN        string `yaml:"dsn" validate:"required_unless=Kind csv"`
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// File is the YAML configuration file. The same shape carries command line
// overrides. A nil Levels or an empty string is unset.
type File struct {
	Levels *int   `yaml:"levels"`
	Target string `yaml:"target"`
	Source Source `yaml:"source"`
	Log    Log    `yaml:"log"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &f, nil
}

// Settings is the effective configuration after every layer is applied.
type Settings struct {
	Levels int    `validate:"gte=1"`
	Target string
	Source Source
	Log    Log
}

var validate = validator.New()

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Resolve layers defaults, the environment, an optional file and flag
// overrides (set fields of flags win), then fills per-kind defaults and
// validates the result. An explicit Levels is kept as given, so values below
// 1 fail validation instead of falling back to the default.
func Resolve(file *File, flags File) (Settings, error) {
	e := Env()
	s := Settings{
		Levels: e.Levels,
		Source: Source{Kind: e.SourceKind},
		Log:    Log{Level: e.LogLevel, Format: e.LogFormat},
	}

	if file != nil {
		merge(&s, *file)
	}
	merge(&s, flags)

	switch s.Source.Kind {
	case KindSQLite:
		s.Source.DSN = cmp.Or(s.Source.DSN, e.SQLitePath)
		s.Source.Ownership = cmp.Or(s.Source.Ownership, DefaultOwnershipTable)
		s.Source.Parentship = cmp.Or(s.Source.Parentship, DefaultParentshipTable)
	case KindPostgres:
		s.Source.DSN = cmp.Or(s.Source.DSN, e.DatabaseURL)
		s.Source.Ownership = cmp.Or(s.Source.Ownership, DefaultOwnershipTable)
		s.Source.Parentship = cmp.Or(s.Source.Parentship, DefaultParentshipTable)
	case KindMemgraph:
		s.Source.DSN = cmp.Or(s.Source.DSN, e.Neo4jURI)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func merge(dst *Settings, src File) {
	if src.Levels != nil {
		dst.Levels = *src.Levels
	}
	dst.Target = cmp.Or(src.Target, dst.Target)
	if src.Source.Kind != "" && src.Source.Kind != dst.Source.Kind {
		// Switching kinds drops locations that belonged to the old kind.
		dst.Source = Source{Kind: src.Source.Kind}
	}
	dst.Source.Ownership = cmp.Or(src.Source.Ownership, dst.Source.Ownership)
	dst.Source.Parentship = cmp.Or(src.Source.Parentship, dst.Source.Parentship)
	dst.Source.DSN = cmp.Or(src.Source.DSN, dst.Source.DSN)
	dst.Log.Level = cmp.Or(src.Log.Level, dst.Log.Level)
	dst.Log.Format = cmp.Or(src.Log.Format, dst.Log.Format)
}
