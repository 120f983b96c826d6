// Package config loads runtime settings from the environment and optional
// threshold override files.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"stegnox/pkg/filehandler"
)

// Environment variables read by Load
const (
	EnvThresholds  = "STEGNOX_THRESHOLDS"
	EnvLogLevel    = "STEGNOX_LOG_LEVEL"
	EnvLogFormat   = "STEGNOX_LOG_FORMAT"
	EnvWorkers     = "STEGNOX_WORKERS"
	EnvMaxFileSize = "STEGNOX_MAX_FILE_SIZE"
	EnvOutputDir   = "STEGNOX_OUTPUT_DIR"
)

// Config holds the runtime settings shared by the engine and the CLI
type Config struct {
	Thresholds  Thresholds
	LogLevel    string
	LogFormat   string
	Workers     int
	MaxFileSize int64
	OutputDir   string
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Thresholds:  DefaultThresholds(),
		LogLevel:    "info",
		LogFormat:   "text",
		Workers:     runtime.NumCPU(),
		MaxFileSize: filehandler.DefaultMaxFileSize,
		OutputDir:   ".",
	}
}

// Load reads a .env file if present, then applies STEGNOX_* variables
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvMaxFileSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive byte count, got %q", EnvMaxFileSize, v)
		}
		cfg.MaxFileSize = n
	}
	if path := os.Getenv(EnvThresholds); path != "" {
		t, err := LoadThresholds(path)
		if err != nil {
			return nil, err
		}
		cfg.Thresholds = t
	}

	return cfg, nil
}
