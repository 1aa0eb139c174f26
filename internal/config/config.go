package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Natural Earth 1:50m admin-0 countries archive, the default boundary
// dataset for site enrichment.
const defaultBoundaryURL = "https://naciscdn.org/naturalearth/50m/cultural/ne_50m_admin_0_countries.zip"

// Config holds all ETL settings, populated from environment variables.
type Config struct {
	// Source CSV and local working directory (also the boundary cache).
	CSVPath string
	DataDir string

	// Warehouse connection.
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDB       string

	// Fact insert chunking: rows per transaction.
	BatchSize int

	// Spatial enrichment.
	GeoEnabled   bool
	BoundaryURL  string
	FetchTimeout time.Duration

	// Optional status/metrics endpoint; empty disables it.
	HTTPAddr string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	batchSize, err := envInt("BATCH_SIZE", 10000)
	if err != nil {
		return nil, err
	}
	port, err := envInt("MYSQL_PORT", 3306)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CSVPath: envOrDefault("CSV_PATH", "data/All_Sites_Times_Daily_Averages_AOD20.csv"),
		DataDir: envOrDefault("DATA_DIR", "data"),

		MySQLHost:     envOrDefault("MYSQL_HOST", "localhost"),
		MySQLPort:     port,
		MySQLUser:     envOrDefault("MYSQL_USER", "root"),
		MySQLPassword: envOrDefault("MYSQL_PASSWORD", "root"),
		MySQLDB:       envOrDefault("MYSQL_DB", "aerosol_dw"),

		BatchSize: batchSize,

		GeoEnabled:   envOrDefault("GEO_ENABLED", "true") == "true",
		BoundaryURL:  envOrDefault("BOUNDARY_URL", defaultBoundaryURL),
		FetchTimeout: fetchTimeout,

		HTTPAddr: os.Getenv("HTTP_ADDR"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.CSVPath == "" {
		return nil, errors.New("CSV_PATH is required")
	}
	if cfg.MySQLDB == "" {
		return nil, errors.New("MYSQL_DB is required")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("FETCH_TIMEOUT must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
