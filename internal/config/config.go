package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Backend selection: file, sheets or sqlite. Chosen once at startup,
	// never mixed at runtime.
	DataBackend string

	// File backend
	RecordsFile string
	RateFile    string

	// SQLite backend
	SQLiteDBPath string

	// Google Sheets backend
	GoogleSpreadsheetID string
	GoogleDataSheet     string
	GoogleConfigSheet   string

	// Access control
	PeopleFile  string
	AdminSecret string

	// Read cache
	CacheTTL time.Duration

	// Optional AMQP notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", "file"),

		RecordsFile: getEnv("RECORDS_FILE", "./data/expenses.csv"),
		RateFile:    getEnv("RATE_FILE", "./data/config.txt"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kotsuhi.db"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleDataSheet:     getEnv("GOOGLE_DATA_SHEET_NAME", "data"),
		GoogleConfigSheet:   getEnv("GOOGLE_CONFIG_SHEET_NAME", "config"),

		PeopleFile:  getEnv("PEOPLE_FILE", "./data/people.txt"),
		AdminSecret: getEnv("ADMIN_SECRET", ""),

		CacheTTL: getEnvDuration("CACHE_TTL", 60*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "kotsuhi"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "file":
		if c.RecordsFile == "" {
			problems = append(problems, "records file path cannot be empty when using file backend")
		}
		if c.RateFile == "" {
			problems = append(problems, "rate file path cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			problems = append(problems, "GOOGLE_SPREADSHEET_ID is required when using sheets backend")
		}
		if c.GoogleDataSheet == "" || c.GoogleConfigSheet == "" {
			problems = append(problems, "Google data and config worksheet names cannot be empty")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [file sheets sqlite]", c.DataBackend))
	}

	if c.CacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
