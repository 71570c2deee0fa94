package config

import (
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Supported fingerprint modes for DATA_FINGERPRINT_MODE.
const (
	FingerprintModTime = "modtime"
	FingerprintHash    = "hash"
)

const (
	defaultPort            = "8080"
	defaultDataFilePath    = "data/sales-data.csv"
	defaultFingerprintMode = FingerprintModTime
	defaultRateLimit       = "120-M"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// DataFilePath is the source identity the dashboard loads.
	DataFilePath string
	// FingerprintMode decides how source changes are detected: "modtime" or "hash".
	FingerprintMode string
	// StrictIntegrity also rejects non-positive unit prices and mismatching totals.
	StrictIntegrity bool

	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_FILE_PATH", defaultDataFilePath)
	v.SetDefault("DATA_FINGERPRINT_MODE", defaultFingerprintMode)
	v.SetDefault("STRICT_INTEGRITY", false)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Actual environment variables override .env values and defaults.
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.StrictIntegrity = v.GetBool("STRICT_INTEGRITY")

	logLevelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to %s.\n", logLevelStr, cfg.LogLevel)
	}

	cfg.DataFilePath = v.GetString("DATA_FILE_PATH")
	if cfg.DataFilePath == "" {
		cfg.DataFilePath = defaultDataFilePath
		log.Printf("Warning: DATA_FILE_PATH is empty. Defaulting to %s.\n", cfg.DataFilePath)
	}

	cfg.FingerprintMode = strings.ToLower(v.GetString("DATA_FINGERPRINT_MODE"))
	if cfg.FingerprintMode != FingerprintModTime && cfg.FingerprintMode != FingerprintHash {
		log.Printf("Warning: Invalid value for DATA_FINGERPRINT_MODE ('%s'). Defaulting to %s.\n", cfg.FingerprintMode, defaultFingerprintMode)
		cfg.FingerprintMode = defaultFingerprintMode
	}

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%s'). Defaulting to %s.\n", cfg.RateLimit, defaultRateLimit)
		cfg.RateLimit = defaultRateLimit
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
