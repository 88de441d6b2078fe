package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"golang.org/x/crypto/bcrypt"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                       string
	PostgresDSN                string
	RedisAddr                  string
	SessionTTL                 time.Duration
	SessionPurgeIntervalMinute int
	BcryptCost                 int
	TemporalAddress            string
	TemporalNamespace          string
	TemporalDisabled           bool
	Bootstrap                  StaffBootstrap
}

// StaffBootstrap describes the staff account created at startup. It is
// skipped unless username and password are both set.
type StaffBootstrap struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether a staff account should be ensured.
func (b StaffBootstrap) Enabled() bool {
	return b.Username != "" && b.Password != ""
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SessionTTL:        24 * time.Hour,
		BcryptCost:        bcrypt.DefaultCost,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		Bootstrap: StaffBootstrap{
			Username: strings.TrimSpace(os.Getenv("BOOTSTRAP_STAFF_USERNAME")),
			Email:    strings.TrimSpace(os.Getenv("BOOTSTRAP_STAFF_EMAIL")),
			Password: os.Getenv("BOOTSTRAP_STAFF_PASSWORD"),
		},
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeIntervalMinute = minutes
	}
	if raw := strings.TrimSpace(os.Getenv("BCRYPT_COST")); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
		cfg.BcryptCost = cost
	}
	if cfg.Bootstrap.Username != "" && cfg.Bootstrap.Password == "" {
		return Config{}, fmt.Errorf("BOOTSTRAP_STAFF_PASSWORD is required when BOOTSTRAP_STAFF_USERNAME is set")
	}
	if cfg.Bootstrap.Enabled() && cfg.Bootstrap.Email == "" {
		cfg.Bootstrap.Email = cfg.Bootstrap.Username + "@localhost"
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
