package config

import (
	"os"
	"strconv"
	"time"

	"aptwatcher/helpers"
	"aptwatcher/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Search configuration
	SearchURL   string
	BaseURL     string
	MaxListings int

	// Seen-set store configuration
	SeenFile string

	// Email notification configuration
	EmailFrom     string
	EmailPassword string
	EmailTo       []string
	SMTPHost      string
	SMTPPort      int

	// Redis stream notification configuration (optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache rate-limit cache (optional)
	MemcacheAddr string

	// Check cadence; zero means run once and exit
	CheckInterval time.Duration

	// Operator error log file
	ErrorLogFile string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	maxListings, _ := strconv.Atoi(getEnv("MAX_LISTINGS", "20"))
	checkInterval, _ := strconv.Atoi(getEnv("CHECK_INTERVAL_SECONDS", "0"))

	return Config{
		SearchURL:            getEnv("STREETEASY_URL", "https://streeteasy.com/for-rent/nyc?sort_by=listed_desc"),
		BaseURL:              getEnv("STREETEASY_BASE_URL", "https://streeteasy.com"),
		MaxListings:          maxListings,
		SeenFile:             getEnv("SEEN_LISTINGS_FILE", "seen_listings.json"),
		EmailFrom:            getEnv("EMAIL_FROM", ""),
		EmailPassword:        getEnv("EMAIL_PASSWORD", ""),
		EmailTo:              helpers.SplitRecipients(getEnv("EMAIL_TO", "")),
		SMTPHost:             getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:             smtpPort,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "newlistings"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		CheckInterval:        time.Duration(checkInterval) * time.Second,
		ErrorLogFile:         getEnv("ERROR_LOG_FILE", "aptwatcher_errors.log"),
		Environment:          getEnv("APTWATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is complete enough to run a check.
// Email credentials are all-or-nothing: a partially configured mailer is a
// configuration error rather than a silent skip at notification time.
func (c *Config) Validate() error {
	if c.SearchURL == "" {
		return errors.NewConfiguration("search URL must not be empty", nil)
	}
	if c.BaseURL == "" {
		return errors.NewConfiguration("base URL must not be empty", nil)
	}
	if c.SeenFile == "" {
		return errors.NewConfiguration("seen listings file must not be empty", nil)
	}
	if c.MaxListings <= 0 {
		return errors.NewConfiguration("max listings must be positive", nil)
	}

	emailConfigured := c.EmailFrom != "" || c.EmailPassword != "" || len(c.EmailTo) > 0
	if emailConfigured {
		if c.EmailFrom == "" || c.EmailPassword == "" || len(c.EmailTo) == 0 {
			return errors.NewConfiguration("email notification requires EMAIL_FROM, EMAIL_PASSWORD and EMAIL_TO", nil)
		}
		if c.SMTPHost == "" || c.SMTPPort <= 0 {
			return errors.NewConfiguration("email notification requires a valid SMTP host and port", nil)
		}
	}

	return nil
}

// EmailConfigured reports whether the email notifier should be constructed
func (c *Config) EmailConfigured() bool {
	return c.EmailFrom != "" && c.EmailPassword != "" && len(c.EmailTo) > 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
