// Package config holds the runtime configuration for sdspull.
// Endpoint paths, header values, and tuning knobs all live in an
// explicit Config passed to each component at construction; nothing is
// read from mutable package globals. Values come from built-in defaults,
// an optional .env file, and the process environment, in that order.
package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Fixed endpoint paths on the remote host.
const (
	CatalogPath  = "/WebViewer/Results/GetResultGrid"
	DownloadPath = "/MyDocuments/DownloadSingleFile"
)

const (
	defaultBaseURL   = "https://sds.diversey.com"
	defaultReferer   = "https://sds.diversey.com/"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
)

// Config carries every runtime setting of a run.
type Config struct {
	// BaseURL is the scheme+host of the remote API.
	BaseURL string
	// Referer, UserAgent and Cookie are sent on every request.
	Referer   string
	UserAgent string
	Cookie    string

	// OutputDir is the flat local store for downloaded assets.
	OutputDir string
	// Extension selects the files the sweep considers.
	Extension string

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// RowCount and SearchKey are catalog query parameters. RowCount is
	// large enough to receive the entire catalog in one page.
	RowCount  int
	SearchKey string

	// Workers bounds concurrent downloads. 1 keeps the catalog's row
	// order observable in the request sequence.
	Workers int
	// SweepWorkers bounds concurrent validations.
	SweepWorkers int
	// Retries is the number of extra download attempts after a timeout
	// or transport failure. 0 disables retrying.
	Retries int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		Referer:      defaultReferer,
		UserAgent:    defaultUserAgent,
		OutputDir:    "PDFs",
		Extension:    ".pdf",
		Timeout:      30 * time.Second,
		RowCount:     10000,
		SearchKey:    "Main",
		Workers:      1,
		SweepWorkers: DefaultSweepWorkers(),
		Retries:      0,
	}
}

// DefaultSweepWorkers is the available hardware parallelism with a
// floor of 4; validation is a mixed CPU/IO workload.
func DefaultSweepWorkers() int {
	if n := runtime.NumCPU(); n > 4 {
		return n
	}
	return 4
}

// Load builds a Config from defaults, an optional .env file, and the
// process environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()
	cfg.BaseURL = getEnv("SDSPULL_BASE_URL", cfg.BaseURL)
	cfg.Referer = getEnv("SDSPULL_REFERER", cfg.Referer)
	cfg.UserAgent = getEnv("SDSPULL_USER_AGENT", cfg.UserAgent)
	cfg.Cookie = getEnv("SDSPULL_COOKIE", cfg.Cookie)
	cfg.OutputDir = getEnv("SDSPULL_OUTPUT_DIR", cfg.OutputDir)
	cfg.Timeout = getEnvDuration("SDSPULL_TIMEOUT", cfg.Timeout)
	cfg.Workers = getEnvInt("SDSPULL_WORKERS", cfg.Workers)
	cfg.SweepWorkers = getEnvInt("SDSPULL_SWEEP_WORKERS", cfg.SweepWorkers)
	cfg.Retries = getEnvInt("SDSPULL_RETRIES", cfg.Retries)
	return cfg
}

// getEnv returns the value of an environment variable or a default
// value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the value of an environment variable as an integer,
// or a default value if not set or if parsing fails.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// getEnvDuration returns the value of an environment variable as a
// time.Duration, or a default value if not set or if parsing fails.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
