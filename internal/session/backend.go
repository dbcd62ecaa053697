package session

import (
	"fmt"
	"strings"
)

// Backend names a KV implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// BackendConfig selects and configures a KV backend.
type BackendConfig struct {
	Backend   Backend
	Path      string
	RedisURL  string
	KeyPrefix string
}

// ParseBackend validates a configured backend name.
func ParseBackend(value string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(value))); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendMemory, BackendRedis:
		return b, nil
	default:
		return "", fmt.Errorf("session: unknown backend %q", value)
	}
}

// NewKV builds the backend described by cfg.
func NewKV(cfg BackendConfig) (KV, error) {
	switch cfg.Backend {
	case BackendFile, "":
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("session: file backend requires a path")
		}
		return NewFileKV(cfg.Path), nil
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("session: redis backend requires a url")
		}
		return NewRedisKV(cfg.RedisURL, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("session: unknown backend %q", cfg.Backend)
	}
}
