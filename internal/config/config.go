package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIURL                string
	WalletRPCURL          string
	DatabaseURL           string
	RetryMaxAttempts      int
	RetryBaseDelay        time.Duration
	RetryMaxDelay         time.Duration
	OutputDir             string
	UserAgent             string
	SheetsSpreadsheetID   string
	SheetsCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		APIURL:                envOrDefault("LEDGER_API_URL", "https://api.helium.io/v1"),
		WalletRPCURL:          envOrDefault("WALLET_RPC_URL", "http://localhost:4467"),
		DatabaseURL:           envOrDefault("DATABASE_URL", ""),
		RetryMaxAttempts:      envOrDefaultInt("LEDGER_RETRY_MAX", 5),
		RetryBaseDelay:        envOrDefaultDuration("LEDGER_RETRY_BASE_DELAY", 2*time.Second),
		RetryMaxDelay:         envOrDefaultDuration("LEDGER_RETRY_MAX_DELAY", time.Minute),
		OutputDir:             envOrDefault("OUTPUT_DIR", "output"),
		UserAgent:             envOrDefault("LEDGER_USER_AGENT", "helium-report/2.1.2"),
		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsJSON: envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
