package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Location is the timezone whose wall clock defines calendar days.
	Location   *time.Location
	TimezoneID string

	// Reading store (InfluxDB) connection.
	InfluxURL         string
	InfluxToken       string
	InfluxOrg         string
	InfluxBucket      string
	InfluxMeasurement string

	// Optional narrative summarizer endpoint; empty disables the feature.
	SummarizerURL string

	// RefreshInterval controls how often today's summary is recomputed.
	RefreshInterval time.Duration

	// Summary cache retention.
	CacheMaxHistory int           // max number of cached days (0 = unlimited)
	CacheMaxAge     time.Duration // max age of cached entries (0 = unlimited)

	// HTTPTimeout bounds outbound HTTP calls (summarizer).
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.TimezoneID = getenvDefault("TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(cfg.TimezoneID)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.TimezoneID, err)
	}
	cfg.Location = loc

	cfg.InfluxURL = getenvDefault("INFLUX_URL", "http://localhost:8086")
	cfg.InfluxToken = os.Getenv("INFLUX_TOKEN")
	cfg.InfluxOrg = getenvDefault("INFLUX_ORG", "weatherboard")
	cfg.InfluxBucket = getenvDefault("INFLUX_BUCKET", "weather_data")
	cfg.InfluxMeasurement = getenvDefault("INFLUX_MEASUREMENT", "sensor_reading")

	cfg.SummarizerURL = os.Getenv("SUMMARIZER_URL")

	// Refresh interval: default 15 minutes.
	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	// Cache retention: a week of summaries by default.
	cfg.CacheMaxHistory = getenvInt("CACHE_MAX_HISTORY", 7)

	maxAgeStr := getenvDefault("CACHE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MAX_AGE: %w", err)
	}
	cfg.CacheMaxAge = maxAge

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
