package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application. Values
// layer as file < environment < flags.
type Config struct {
	Storage Storage
	Search  Search
	AI      AI
	Jobs    Jobs
	Logging Logging
	Theme   string
	Flags   map[string]string
	Args    []string
}

type Storage struct {
	DBPath string
}

type Search struct {
	Sources []string
	Limit   int
}

type AI struct {
	Provider string
}

type Jobs struct {
	MaxInFlight int
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envDBPath   = "TOOLSHED_DB"
	envSources  = "TOOLSHED_SOURCES"
	envLimit    = "TOOLSHED_SEARCH_LIMIT"
	envProvider = "TOOLSHED_AI_PROVIDER"
	envMaxJobs  = "TOOLSHED_MAX_JOBS"
	envTheme    = "TOOLSHED_THEME"
	envTrace    = "TOOLSHED_TRACE"
	envLogFile  = "TOOLSHED_LOG_FILE"
)

var defaultSources = []string{"crates.io", "npm", "pypi", "brew", "apt", "github"}

// fileConfig mirrors the TOML layout of ~/.config/toolshed/config.toml.
type fileConfig struct {
	Storage struct {
		DBPath string `toml:"db_path"`
	} `toml:"storage"`
	Search struct {
		Sources []string `toml:"sources"`
		Limit   int      `toml:"limit"`
	} `toml:"search"`
	AI struct {
		Provider string `toml:"provider"`
	} `toml:"ai"`
	Jobs struct {
		MaxInFlight int `toml:"max_in_flight"`
	} `toml:"jobs"`
	Logging struct {
		File  string `toml:"file"`
		Trace bool   `toml:"trace"`
	} `toml:"logging"`
	Theme string `toml:"theme"`
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "toolshed"), nil
}

// Load parses configuration from the config file, CLI arguments, and
// environment variables.
func Load() (Config, error) {
	path := ""
	if dir, err := Dir(); err == nil {
		path = filepath.Join(dir, "config.toml")
	}
	return LoadArgs(os.Args[1:], os.Environ(), path)
}

// LoadArgs allows tests to supply specific args, environment, and
// config file path.
func LoadArgs(args []string, environ []string, filePath string) (Config, error) {
	file, err := loadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	env := parseEnv(environ)

	fileSources := strings.Join(file.Search.Sources, ",")
	if fileSources == "" {
		fileSources = strings.Join(defaultSources, ",")
	}
	fileLimit := file.Search.Limit
	if fileLimit == 0 {
		fileLimit = 10
	}
	fileMaxJobs := file.Jobs.MaxInFlight
	if fileMaxJobs == 0 {
		fileMaxJobs = 4
	}
	fileTheme := file.Theme
	if fileTheme == "" {
		fileTheme = "default"
	}

	fs := flag.NewFlagSet("toolshed", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	dbPath := fs.String("db", envOrDefault(env, envDBPath, file.Storage.DBPath), "path to the tool database")
	sources := fs.String("sources", envOrDefault(env, envSources, fileSources), "comma-separated discovery sources")
	limit := fs.Int("limit", envOrInt(env, envLimit, fileLimit), "maximum results per discovery source")
	provider := fs.String("ai-provider", envOrDefault(env, envProvider, file.AI.Provider), "AI provider CLI (claude, gemini, codex, opencode)")
	maxJobs := fs.Int("max-jobs", envOrInt(env, envMaxJobs, fileMaxJobs), "maximum concurrent background jobs")
	theme := fs.String("theme", envOrDefault(env, envTheme, fileTheme), "colour theme name")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Logging.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.Logging.File), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *limit < 1 {
		return Config{}, fmt.Errorf("limit must be >= 1 (got %d)", *limit)
	}
	if *maxJobs < 1 {
		return Config{}, fmt.Errorf("max-jobs must be >= 1 (got %d)", *maxJobs)
	}

	cfg := Config{
		Storage: Storage{DBPath: *dbPath},
		Search: Search{
			Sources: splitSources(*sources),
			Limit:   *limit,
		},
		AI:      AI{Provider: *provider},
		Jobs:    Jobs{MaxInFlight: *maxJobs},
		Logging: Logging{FilePath: *logFile, Trace: *trace},
		Theme:   *theme,
		Flags: map[string]string{
			"db":         *dbPath,
			"sources":    *sources,
			"limit":      strconv.Itoa(*limit),
			"aiProvider": *provider,
			"maxJobs":    strconv.Itoa(*maxJobs),
			"theme":      *theme,
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if path == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return file, nil
	}
	if err != nil {
		return file, err
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

func splitSources(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
