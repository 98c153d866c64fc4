package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wppddf/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig
	Output  OutputConfig
	Catalog CatalogConfig
	Log     LogConfig
}

// SourceConfig locates the WPP workbook and the sheets read from it
type SourceConfig struct {
	Path           string
	EstimatesSheet string
	MediumSheet    string
	NotesSheet     string
	SkipRows       int
}

// OutputConfig holds settings for the DDF output directory
type OutputConfig struct {
	Dir          string
	IndexFile    string
	Encoding     string
	WriteWorkers int
}

// CatalogConfig holds the optional run catalog database settings
type CatalogConfig struct {
	Driver string
	DSN    string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Supported output encodings
const (
	EncodingUTF8    = "utf8"
	EncodingUTF8BOM = "utf8-bom"
)

// Defaults mirror the layout of the ddf--un--wpp repository
const (
	DefaultSourcePath = "../source/WPP2015_INT_F01_ANNUAL_DEMOGRAPHIC_INDICATORS.xlsx"
	DefaultOutputDir  = "../../"
	DefaultIndexFile  = "ddf--index.csv"
)

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Path:           DefaultSourcePath,
			EstimatesSheet: "ESTIMATES",
			MediumSheet:    "MEDIUM VARIANT",
			NotesSheet:     "NOTES",
			SkipRows:       16,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			IndexFile:    DefaultIndexFile,
			Encoding:     EncodingUTF8,
			WriteWorkers: 1,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	def := Default()
	config := &Config{
		Source: SourceConfig{
			Path:           getEnvOrDefault("WPP_SOURCE_PATH", def.Source.Path),
			EstimatesSheet: getEnvOrDefault("WPP_SHEET_ESTIMATES", def.Source.EstimatesSheet),
			MediumSheet:    getEnvOrDefault("WPP_SHEET_MEDIUM", def.Source.MediumSheet),
			NotesSheet:     getEnvOrDefault("WPP_SHEET_NOTES", def.Source.NotesSheet),
			SkipRows:       getEnvIntOrDefault("WPP_SKIP_ROWS", def.Source.SkipRows),
		},
		Output: OutputConfig{
			Dir:          getEnvOrDefault("WPP_OUTPUT_DIR", def.Output.Dir),
			IndexFile:    getEnvOrDefault("WPP_INDEX_FILE", def.Output.IndexFile),
			Encoding:     strings.ToLower(getEnvOrDefault("WPP_OUTPUT_ENCODING", def.Output.Encoding)),
			WriteWorkers: getEnvIntOrDefault("WPP_WRITE_WORKERS", def.Output.WriteWorkers),
		},
		Catalog: CatalogConfig{
			Driver: strings.ToLower(getEnvOrDefault("WPP_CATALOG_DRIVER", "")),
			DSN:    getEnvOrDefault("WPP_CATALOG_DSN", ""),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", def.Log.Level),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks that every option holds a usable value
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Path) == "" {
		return errors.ConfigInvalid("source path is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if c.Source.EstimatesSheet == "" || c.Source.MediumSheet == "" || c.Source.NotesSheet == "" {
		return errors.ConfigInvalid("sheet names must not be empty")
	}
	if c.Source.SkipRows < 0 {
		return errors.ConfigInvalid("skip rows must not be negative")
	}
	if c.Output.IndexFile == "" || filepath.Base(c.Output.IndexFile) != c.Output.IndexFile {
		return errors.ConfigInvalid("index file must be a bare file name")
	}
	switch c.Output.Encoding {
	case EncodingUTF8, EncodingUTF8BOM:
	default:
		return errors.ConfigInvalid("unsupported output encoding " + strconv.Quote(c.Output.Encoding))
	}
	if c.Output.WriteWorkers < 1 {
		return errors.ConfigInvalid("write workers must be at least 1")
	}
	switch c.Catalog.Driver {
	case "":
	case "sqlite", "postgres":
		if c.Catalog.DSN == "" {
			return errors.ConfigInvalid("catalog DSN is required when a catalog driver is set")
		}
	default:
		return errors.ConfigInvalid("unsupported catalog driver " + strconv.Quote(c.Catalog.Driver))
	}
	return nil
}

// IndexPath is the full path of the index file inside the output directory
func (c *Config) IndexPath() string {
	return filepath.Join(c.Output.Dir, c.Output.IndexFile)
}

// CatalogEnabled reports whether runs are recorded in a database
func (c *Config) CatalogEnabled() bool {
	return c.Catalog.Driver != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
