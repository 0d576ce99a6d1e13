package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port              string   `yaml:"port"`
	LogLevel          string   `yaml:"logLevel"`
	DatabaseURL       string   `yaml:"databaseURL"`
	RedisAddr         string   `yaml:"redisAddr"`
	RedisPassword     string   `yaml:"redisPassword"`
	TrustedProxyCIDRs []string `yaml:"trustedProxyCidrs"`

	ContactRateLimit    int    `yaml:"contactRateLimit"`
	ContactRateWindow   string `yaml:"contactRateWindow"`
	SubscribeRateLimit  int    `yaml:"subscribeRateLimit"`
	SubscribeRateWindow string `yaml:"subscribeRateWindow"`
	VoteRateLimit       int    `yaml:"voteRateLimit"`
	VoteRateWindow      string `yaml:"voteRateWindow"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}
	if v := os.Getenv("CONTACT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContactRateLimit = n
		}
	}
	if v := os.Getenv("CONTACT_RATE_WINDOW"); v != "" {
		cfg.ContactRateWindow = strings.TrimSpace(v)
	}
	if v := os.Getenv("SUBSCRIBE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SubscribeRateLimit = n
		}
	}
	if v := os.Getenv("SUBSCRIBE_RATE_WINDOW"); v != "" {
		cfg.SubscribeRateWindow = strings.TrimSpace(v)
	}
	if v := os.Getenv("VOTE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.VoteRateLimit = n
		}
	}
	if v := os.Getenv("VOTE_RATE_WINDOW"); v != "" {
		cfg.VoteRateWindow = strings.TrimSpace(v)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for rate limiting")
	}
	if cfg.ContactRateLimit < 0 || cfg.SubscribeRateLimit < 0 || cfg.VoteRateLimit < 0 {
		return errors.New("config: rate limits must be >= 0")
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseWindow parses an optional rate window duration string, falling back
// to the given default when unset.
func ParseWindow(window string, fallback time.Duration) (time.Duration, error) {
	window = strings.TrimSpace(window)
	if window == "" {
		return fallback, nil
	}
	dur, err := time.ParseDuration(window)
	if err != nil {
		return 0, fmt.Errorf("invalid rate window %q: %w", window, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("rate window %q must be positive", window)
	}
	return dur, nil
}
