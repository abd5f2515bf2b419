// Package config provides the reference server's configuration, assembled
// from command-line flags, an optional JSON file and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"
)

// Options holds the configuration values for the server.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string

	// JWTSecret signs access tokens. Must be at least 16 bytes.
	JWTSecret string

	// LogLevel is the zap level name (Debug, Info, Warn, Error).
	LogLevel string

	// CacheSizeMB sizes the profile read cache. Zero disables it.
	CacheSizeMB int

	// HistoryRetention bounds how long scan_history rows are kept.
	HistoryRetention time.Duration

	// Config is the path to the optional JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "jwt signing secret")
	flag.StringVar(&options.LogLevel, "l", "Info", "log level")
	flag.IntVar(&options.CacheSizeMB, "cache", 16, "profile cache size in MB, 0 disables")
	flag.DurationVar(&options.HistoryRetention, "retention", 90*24*time.Hour, "scan history retention window")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the config file and environment
// variables, later sources overriding earlier ones. It returns a pointer to
// the Options struct containing the final values.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		options.Addr = addr
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if size := os.Getenv("CACHE_SIZE_MB"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			options.CacheSizeMB = n
		}
	}
	if retention := os.Getenv("HISTORY_RETENTION"); retention != "" {
		if d, err := time.ParseDuration(retention); err == nil {
			options.HistoryRetention = d
		}
	}

	return options
}
