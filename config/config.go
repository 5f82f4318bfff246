package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default targeting used when no overrides are configured.
var (
	DefaultSubreddits = []string{"askmanagers", "projectmanagement", "startups", "Entrepreneur"}

	DefaultKeywords = []string{
		"reporting", "visibility", "manage", "team", "growth",
		"excel", "sheet", "manual", "chasing", "automation",
		"ops", "operations", "dashboard",
	}
)

const (
	DefaultUrgencyThreshold = 6
	DefaultRunInterval      = 24 * time.Hour

	DefaultRedditLimit   = 25
	DefaultXLimit        = 20
	DefaultLinkedInLimit = 10
)

// Config holds all runtime settings. It is loaded once at startup and passed
// explicitly into each component; nothing reads the environment afterwards.
type Config struct {
	Port string

	// Cohere classifier/drafter (required)
	CohereAPIKey string
	CohereModel  string

	// Google Sheets lead store (service account JSON is required; it may be a
	// file path or the raw JSON itself)
	GoogleServiceAccountJSON string
	SpreadsheetID            string
	SpreadsheetName          string

	// Reddit uses the public read-only JSON endpoint; no credentials needed.
	RedditUserAgent string
	Subreddits      []string

	// X search goes through a Nitter instance; absence disables the adapter.
	NitterURL string

	// LinkedIn unofficial client; absence of credentials disables the adapter.
	LinkedInUsername string
	LinkedInPassword string

	Keywords         []string
	UrgencyThreshold int
	RunInterval      time.Duration

	RedditLimit   int
	XLimit        int
	LinkedInLimit int

	// Optional Redis-backed bloom filter for cross-run duplicate hashes.
	RedisAddr string
	RedisPass string
	BloomKey  string

	// Optional saved-lead event stream.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional S3 archive of saved leads.
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool
}

// Load reads configuration from the environment and validates required
// credentials. A missing required credential is a startup failure.
func Load() (Config, error) {
	cfg := Config{
		Port: getEnvOrDefault("PORT", "8080"),

		CohereAPIKey: os.Getenv("COHERE_API_KEY"),
		CohereModel:  getEnvOrDefault("COHERE_MODEL", "command-r-08-2024"),

		GoogleServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SpreadsheetID:            os.Getenv("SPREADSHEET_ID"),
		SpreadsheetName:          getEnvOrDefault("SPREADSHEET_NAME", "OpsPilot Leads"),

		RedditUserAgent: getEnvOrDefault("REDDIT_USER_AGENT", "OpsPilotLeads/1.0 (read-only)"),
		Subreddits:      getEnvListOrDefault("SUBREDDITS", DefaultSubreddits),

		NitterURL: strings.TrimRight(os.Getenv("NITTER_URL"), "/"),

		LinkedInUsername: os.Getenv("LINKEDIN_USERNAME"),
		LinkedInPassword: os.Getenv("LINKEDIN_PASSWORD"),

		Keywords:         getEnvListOrDefault("KEYWORDS", DefaultKeywords),
		UrgencyThreshold: getEnvIntOrDefault("LEAD_URGENCY_THRESHOLD", DefaultUrgencyThreshold),
		RunInterval:      getEnvDurationOrDefault("RUN_INTERVAL", DefaultRunInterval),

		RedditLimit:   getEnvIntOrDefault("REDDIT_FETCH_LIMIT", DefaultRedditLimit),
		XLimit:        getEnvIntOrDefault("X_FETCH_LIMIT", DefaultXLimit),
		LinkedInLimit: getEnvIntOrDefault("LINKEDIN_FETCH_LIMIT", DefaultLinkedInLimit),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),
		BloomKey:  getEnvOrDefault("BLOOM_KEY", "leads:bloom"),

		KafkaBrokers: getEnvListOrDefault("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnvOrDefault("KAFKA_TOPIC", "leads.saved"),

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:       strings.Trim(os.Getenv("S3_PREFIX"), "/"),
		S3UsePathStyle: strings.EqualFold(os.Getenv("S3_USE_PATH_STYLE"), "true"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CohereAPIKey == "" {
		return fmt.Errorf("COHERE_API_KEY is required")
	}
	if c.GoogleServiceAccountJSON == "" {
		return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is required")
	}
	if c.UrgencyThreshold < 0 || c.UrgencyThreshold > 10 {
		return fmt.Errorf("LEAD_URGENCY_THRESHOLD must be between 0 and 10, got %d", c.UrgencyThreshold)
	}
	return nil
}

// XEnabled reports whether the X adapter has its Nitter endpoint configured.
func (c Config) XEnabled() bool { return c.NitterURL != "" }

// LinkedInEnabled reports whether LinkedIn credentials are present.
func (c Config) LinkedInEnabled() bool {
	return c.LinkedInUsername != "" && c.LinkedInPassword != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

// getEnvListOrDefault parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
