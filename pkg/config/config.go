package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	IsProduction  bool
	IsDevelopment bool

	// Logging
	LogDir   string
	LogLevel string

	// Sites
	Sites     []string
	SitesFile string

	// Fetching
	MaxInFlightFetches int
	FetchTimeout       time.Duration
	FetchMaxRetries    int
	FetchRetryWait     time.Duration

	// Sinks
	MongoDBURI      string
	MongoDBDatabase string
	PostgresURL     string

	// Discord run reports
	DiscordToken    string
	ReportChannelID string

	// Monitoring
	MetricsAddr string

	// Crawler Configuration
	CrawlInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogDir:          getEnv("LOG_DIR", "logs"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Sites:           splitList(getEnv("SITES", "billa,hofer")),
		SitesFile:       getEnv("SITES_FILE", ""),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", "pricecrawl"),
		PostgresURL:     getEnv("POSTGRES_URL", ""),
		DiscordToken:    getEnv("DISCORD_TOKEN", ""),
		ReportChannelID: getEnv("REPORT_CHANNEL_ID", ""),
		MetricsAddr:     getEnv("METRICS_ADDR", ""),
	}

	// Derived properties
	cfg.IsProduction = cfg.Environment == "production"
	cfg.IsDevelopment = !cfg.IsProduction

	// Parse numeric values
	var err error
	if cfg.MaxInFlightFetches, err = getInt("MAX_INFLIGHT_FETCHES", 4); err != nil {
		return nil, err
	}
	if cfg.FetchMaxRetries, err = getInt("FETCH_MAX_RETRIES", 3); err != nil {
		return nil, err
	}

	timeoutSeconds, err := getInt("FETCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = time.Duration(timeoutSeconds) * time.Second

	retryWaitSeconds, err := getInt("FETCH_RETRY_WAIT_SECONDS", 2)
	if err != nil {
		return nil, err
	}
	cfg.FetchRetryWait = time.Duration(retryWaitSeconds) * time.Second

	intervalMinutes, err := getInt("CRAWL_INTERVAL_MINUTES", 0)
	if err != nil {
		return nil, err
	}
	cfg.CrawlInterval = time.Duration(intervalMinutes) * time.Minute

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is consistent
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("SITES must name at least one site")
	}
	if c.MaxInFlightFetches < 1 {
		return fmt.Errorf("MAX_INFLIGHT_FETCHES must be at least 1, got %d", c.MaxInFlightFetches)
	}
	if c.FetchMaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1, got %d", c.FetchMaxRetries)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchRetryWait < 0 {
		return fmt.Errorf("FETCH_RETRY_WAIT_SECONDS must not be negative")
	}
	if c.CrawlInterval < 0 {
		return fmt.Errorf("CRAWL_INTERVAL_MINUTES must not be negative")
	}
	if c.DiscordToken != "" && c.ReportChannelID == "" {
		return fmt.Errorf("REPORT_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
