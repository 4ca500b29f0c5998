// Package config provides centralized configuration management.
// Settings come from the environment (optionally seeded from .env files),
// an optional YAML file and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// DefaultLevels is the traversal depth used when nothing else is set.
const DefaultLevels = 3

// UBOEnv holds all ubo environment variables.
type UBOEnv struct {
	// Levels is the default traversal depth (UBO_LEVELS)
	Levels int

	// LogLevel is the minimum log level (UBO_LOG_LEVEL)
	LogLevel string

	// LogFormat is text or json (UBO_LOG_FORMAT)
	LogFormat string

	// ConfigFile is the YAML configuration path (UBO_CONFIG)
	ConfigFile string

	// SourceKind selects the record source (UBO_SOURCE)
	SourceKind string

	// SQLitePath is the SQLite database file (UBO_SQLITE_PATH)
	SQLitePath string

	// Neo4jURI is the graph database URI (NEO4J_URI)
	Neo4jURI string

	// Neo4jUser is the graph database user (NEO4J_USER)
	Neo4jUser string

	// Neo4jPassword is the graph database password (NEO4J_PASSWORD)
	Neo4jPassword string

	// Neo4jDatabase is the graph database name (NEO4J_DATABASE)
	Neo4jDatabase string

	// DatabaseURL is the Postgres connection string (DATABASE_URL)
	DatabaseURL string
}

var (
	env     *UBOEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *UBOEnv {
	envOnce.Do(func() {
		env = &UBOEnv{
			Levels:        getEnvInt("UBO_LEVELS", DefaultLevels),
			LogLevel:      getEnvDefault("UBO_LOG_LEVEL", "info"),
			LogFormat:     getEnvDefault("UBO_LOG_FORMAT", "text"),
			ConfigFile:    os.Getenv("UBO_CONFIG"),
			SourceKind:    getEnvDefault("UBO_SOURCE", KindCSV),
			SQLitePath:    getEnvDefault("UBO_SQLITE_PATH", GetPaths().Database),
			Neo4jURI:      getEnvDefault("NEO4J_URI", "bolt://localhost:7687"),
			Neo4jUser:     os.Getenv("NEO4J_USER"),
			Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
			Neo4jDatabase: getEnvDefault("NEO4J_DATABASE", "memgraph"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables that are already set. Missing files are skipped.
// It must run before the first call to Env.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Paths holds standard ubo directory paths.
type Paths struct {
	// Home is the ubo home directory (~/.ubo)
	Home string

	// Data is the data directory (~/.ubo/data)
	Data string

	// Database is the default SQLite file (~/.ubo/data/ubo.db)
	Database string

	// EnvFile is the .env file path (~/.ubo/.env)
	EnvFile string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		uboHome := filepath.Join(home, ".ubo")
		data := filepath.Join(uboHome, "data")

		paths = &Paths{
			Home:     uboHome,
			Data:     data,
			Database: filepath.Join(data, "ubo.db"),
			EnvFile:  filepath.Join(uboHome, ".env"),
		}
	})
	return paths
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
