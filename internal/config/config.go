// Package config parses the SSH-config-derived host catalog and the
// runtime tunables, both env-overridable with SCOUT_* winning over the
// legacy MCP_CAT_* prefix.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scout/internal/scerr"
)

// SSHHost is a catalog entry derived from an SSH-config Host stanza.
// Immutable after construction; a config reload replaces the catalog
// wholesale rather than mutating entries in place.
type SSHHost struct {
	Name         string // alias, unique key
	Hostname     string
	User         string
	Port         int
	IdentityFile string
	IsLocalhost  bool
}

// Config holds every runtime tunable named in spec.md §3.
type Config struct {
	MaxFileSize           int64
	CommandTimeout        time.Duration
	IdleTimeout           time.Duration
	MaxPoolSize           int
	SSHConnectTimeout     time.Duration
	KnownHostsPath        string
	StrictHostKeyChecking bool
	APIKeys               map[string]struct{}
	RateLimitPerMinute    int
	RateLimitBurst        int
	MaxOutputSize         int64
	LogLevel              string
	DiffContext           int
	SlowThresholdMs       int64

	Transport string
	HTTPHost  string
	HTTPPort  string

	SSHConfigPath string
}

// Load builds Config from SCOUT_*/MCP_CAT_* environment variables, with
// SCOUT_* winning when both are set. max_pool_size <= 0 is rejected here
// per spec.md §4.3/§6, which is a fatal configuration error at startup.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()

	cfg := &Config{
		MaxFileSize:           envInt64("MAX_FILE_SIZE", 1<<20),
		CommandTimeout:        envDuration("COMMAND_TIMEOUT", 30*time.Second),
		IdleTimeout:           envDuration("IDLE_TIMEOUT", 60*time.Second),
		MaxPoolSize:           envInt("MAX_POOL_SIZE", 100),
		SSHConnectTimeout:     envDuration("SSH_CONNECT_TIMEOUT", 30*time.Second),
		KnownHostsPath:        envString("KNOWN_HOSTS", filepath.Join(home, ".ssh", "known_hosts")),
		StrictHostKeyChecking: envBool("STRICT_HOST_KEY_CHECKING", true),
		APIKeys:               envSet("API_KEYS"),
		RateLimitPerMinute:    envInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:        envInt("RATE_LIMIT_BURST", 10),
		MaxOutputSize:         envInt64("MAX_OUTPUT_SIZE", 10<<20),
		LogLevel:              envString("LOG_LEVEL", "DEBUG"),
		DiffContext:           envInt("DIFF_CONTEXT", 3),
		SlowThresholdMs:       envInt64("SLOW_THRESHOLD_MS", 1000),
		Transport:             envString("TRANSPORT", "http"),
		HTTPHost:              envString("HTTP_HOST", "127.0.0.1"),
		HTTPPort:              envString("HTTP_PORT", "8000"),
		SSHConfigPath:         envString("SSH_CONFIG", filepath.Join(home, ".ssh", "config")),
	}

	if cfg.MaxPoolSize <= 0 {
		return nil, scerr.New(scerr.KindConfig, "MAX_POOL_SIZE must be positive")
	}

	return cfg, nil
}

// lookupEnv checks SCOUT_<key> first, then the legacy MCP_CAT_<key>.
func lookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv("SCOUT_" + key); ok {
		return v, true
	}
	if v, ok := os.LookupEnv("MCP_CAT_" + key); ok {
		return v, true
	}
	return "", false
}

func envString(key, fallback string) string {
	if v, ok := lookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := lookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v, ok := lookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := lookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := lookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envSet(key string) map[string]struct{} {
	set := make(map[string]struct{})
	v, ok := lookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return set
	}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			set[part] = struct{}{}
		}
	}
	return set
}
