package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prism-board/api"
	"prism-board/domain"
)

const (
	backendMemory = "memory"
	backendSQLite = "sqlite"
	backendRedis  = "redis"
	backendTables = "tables"

	authNone   = "none"
	authHS256  = "hs256"
	authAuth0  = "auth0"
	localScope = "local"
)

type config struct {
	Debug bool
	Port  string

	Backend       string
	SQLitePath    string
	RedisConn     string
	StorageConn   string
	BoardTable    string
	EventsQueue   string
	CacheTTL      time.Duration
	DeduperTTL    time.Duration
	Statuses      []string
	AuthMode      string
	SharedSecret  string
	Auth0Audience string
	Auth0Domain   string
	JWKSCacheTTL  time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		Port:          envOr("PORT", "8080"),
		Backend:       strings.ToLower(envOr("STORE_BACKEND", backendSQLite)),
		SQLitePath:    envOr("SQLITE_PATH", "board.db"),
		RedisConn:     os.Getenv("REDIS_CONNECTION_STRING"),
		StorageConn:   os.Getenv("STORAGE_CONNECTION_STRING"),
		BoardTable:    envOr("BOARD_TABLE", "board"),
		EventsQueue:   os.Getenv("EVENTS_QUEUE"),
		Statuses:      domain.ParseStatuses(os.Getenv("BOARD_STATUSES")),
		AuthMode:      strings.ToLower(envOr("AUTH_MODE", authNone)),
		SharedSecret:  os.Getenv("LOCAL_AUTH_SHARED_SECRET"),
		Auth0Audience: os.Getenv("AUTH0_AUDIENCE"),
		Auth0Domain:   os.Getenv("AUTH0_DOMAIN"),
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 0); err != nil {
		return cfg, err
	}
	if cfg.DeduperTTL, err = durationEnv("DEDUPER_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.JWKSCacheTTL, err = durationEnv("JWKS_CACHE_TTL", api.DefaultJWKSCacheTTL); err != nil {
		return cfg, err
	}

	switch cfg.Backend {
	case backendMemory, backendSQLite:
	case backendRedis:
		if cfg.RedisConn == "" {
			return cfg, fmt.Errorf("missing redis config: REDIS_CONNECTION_STRING is required for STORE_BACKEND=%s", cfg.Backend)
		}
	case backendTables:
		if cfg.StorageConn == "" {
			return cfg, fmt.Errorf("missing storage config: STORAGE_CONNECTION_STRING is required for STORE_BACKEND=%s", cfg.Backend)
		}
	default:
		return cfg, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Backend)
	}
	if cfg.EventsQueue != "" && cfg.StorageConn == "" {
		return cfg, fmt.Errorf("missing storage config: EVENTS_QUEUE needs STORAGE_CONNECTION_STRING")
	}

	switch cfg.AuthMode {
	case authNone:
	case authHS256:
		if cfg.SharedSecret == "" {
			return cfg, fmt.Errorf("LOCAL_AUTH_SHARED_SECRET must be set when AUTH_MODE=hs256")
		}
	case authAuth0:
		if cfg.Auth0Audience == "" || cfg.Auth0Domain == "" {
			return cfg, fmt.Errorf("missing Auth0 config")
		}
	default:
		return cfg, fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
