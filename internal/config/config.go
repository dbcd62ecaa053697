// internal/config/config.go
//
// This package handles configuration and the .deckhand directory structure.
// Every directory deckhand runs in gets a .deckhand/ folder holding the
// config file, session state, logs and exports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/slides"
)

const (
	// DeckhandDir is the name of the directory we create in each working directory
	DeckhandDir = ".deckhand"

	defaultBaseURL        = "http://127.0.0.1:5000"
	defaultTimeout        = 2 * time.Minute
	defaultKeyPrefix      = "deckhand:"
	defaultExportFilename = "project_slides.pdf"
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
	defaultPreviewHost    = "127.0.0.1"
	defaultPreviewPort    = 8766
)

const defaultProjectConfigYAML = `# deckhand configuration
version: 1

# Remote pitch deck service.
service:
  base_url: http://127.0.0.1:5000
  timeout: 2m

# Where session state is kept between runs: file, memory or redis.
session:
  backend: file
  # path: state/session.json
  # redis_url: redis://localhost:6379/0
  # key_prefix: "deckhand:"

# Optional slide order: selection (pick order) or canonical (deck order).
generation:
  order: selection

# Local HTML preview of the generated deck.
preview:
  enabled: true
  host: 127.0.0.1
  port: 8766

export:
  filename: project_slides.pdf

logging:
  level: info
`

// ServiceConfig points at the remote deck service.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects the session persistence backend.
type SessionConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path,omitempty"`
	RedisURL  string `yaml:"redis_url,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// GenerationConfig tunes the generation run.
type GenerationConfig struct {
	Order string `yaml:"order"`
}

// PreviewConfig configures the local preview server. Port 0 binds an
// ephemeral port.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// ExportConfig controls where exported decks land.
type ExportConfig struct {
	Filename string `yaml:"filename"`
}

// LoggingConfig controls the structured log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// ProjectConfig models .deckhand/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Service    ServiceConfig    `yaml:"service"`
	Session    SessionConfig    `yaml:"session"`
	Generation GenerationConfig `yaml:"generation"`
	Preview    PreviewConfig    `yaml:"preview"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Config holds the runtime configuration for deckhand.
type Config struct {
	// ProjectDir is the directory where the user ran `deckhand` from
	ProjectDir string

	// DeckhandProjectDir is ProjectDir/.deckhand
	DeckhandProjectDir string

	Project ProjectConfig
}

// InitDeckhandDir creates the .deckhand directory structure in the given
// directory and writes a default config.yaml when none exists.
//
// Structure created:
// .deckhand/
// ├── logs/     <- deckhand.log and journey.log
// ├── state/    <- Session snapshot (file backend)
// └── exports/  <- Downloaded PDF decks
func InitDeckhandDir(projectDir string) error {
	deckhandDir := filepath.Join(projectDir, DeckhandDir)
	dirs := []string{
		filepath.Join(deckhandDir, "logs"),
		filepath.Join(deckhandDir, "state"),
		filepath.Join(deckhandDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(deckhandDir, "config.yaml"))
}

// NewConfig loads .deckhand/config.yaml, applies environment overrides and
// validates the result.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		DeckhandProjectDir: filepath.Join(projectDir, DeckhandDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DeckhandProjectDir, "logs")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.DeckhandProjectDir, "state")
}

// ExportsDir returns the directory exported decks are written to
func (c *Config) ExportsDir() string {
	return filepath.Join(c.DeckhandProjectDir, "exports")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DeckhandProjectDir, "config.yaml")
}

// LogPath returns the structured log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "deckhand.log")
}

// JourneyLogPath returns the logbook file shown in the TUI.
func (c *Config) JourneyLogPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// ExportPath returns the destination of the next PDF export.
func (c *Config) ExportPath() string {
	return filepath.Join(c.ExportsDir(), c.Project.Export.Filename)
}

// PreviewAddress returns the host:port the preview server binds.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Project.Preview.Host, strconv.Itoa(c.Project.Preview.Port))
}

// SessionBackend returns the KV backend configuration for the session store.
func (c *Config) SessionBackend() session.BackendConfig {
	backend, _ := session.ParseBackend(c.Project.Session.Backend)
	return session.BackendConfig{
		Backend:   backend,
		Path:      c.Project.Session.Path,
		RedisURL:  c.Project.Session.RedisURL,
		KeyPrefix: c.Project.Session.KeyPrefix,
	}
}

// OrderPolicy returns the configured optional slide ordering.
func (c *Config) OrderPolicy() slides.OrderPolicy {
	policy, err := slides.ParseOrderPolicy(c.Project.Generation.Order)
	if err != nil {
		return slides.OrderSelection
	}
	return policy
}

// Effective renders the resolved configuration as YAML.
func (c *Config) Effective() ([]byte, error) {
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return nil, fmt.Errorf("config: encode config: %w", err)
	}
	return data, nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	parsed.applyDefaults()
	if err := parsed.applyEnvOverrides(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	parsed.normalize(c.DeckhandProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Service: ServiceConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Session: SessionConfig{
			Backend: string(session.BackendFile),
		},
		Generation: GenerationConfig{
			Order: string(slides.OrderSelection),
		},
		Preview: PreviewConfig{
			Enabled: true,
			Host:    defaultPreviewHost,
			Port:    defaultPreviewPort,
		},
		Export: ExportConfig{
			Filename: defaultExportFilename,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Service.BaseURL) == "" {
		pc.Service.BaseURL = defaultBaseURL
	}
	if pc.Service.Timeout <= 0 {
		pc.Service.Timeout = defaultTimeout
	}
	if strings.TrimSpace(pc.Session.Backend) == "" {
		pc.Session.Backend = string(session.BackendFile)
	}
	if strings.TrimSpace(pc.Export.Filename) == "" {
		pc.Export.Filename = defaultExportFilename
	}
	if strings.TrimSpace(pc.Logging.Level) == "" {
		pc.Logging.Level = defaultLogLevel
	}
	if pc.Logging.MaxSizeMB <= 0 {
		pc.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if pc.Logging.MaxBackups <= 0 {
		pc.Logging.MaxBackups = defaultLogMaxBackups
	}
}

func (pc *ProjectConfig) applyEnvOverrides() error {
	if value := strings.TrimSpace(os.Getenv("DECKHAND_SERVICE_URL")); value != "" {
		pc.Service.BaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_SERVICE_TIMEOUT")); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("DECKHAND_SERVICE_TIMEOUT: %w", err)
		}
		pc.Service.Timeout = timeout
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_SESSION_BACKEND")); value != "" {
		pc.Session.Backend = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_REDIS_URL")); value != "" {
		pc.Session.RedisURL = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_GENERATION_ORDER")); value != "" {
		pc.Generation.Order = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_PREVIEW_ENABLED")); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("DECKHAND_PREVIEW_ENABLED: %w", err)
		}
		pc.Preview.Enabled = enabled
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_PREVIEW_HOST")); value != "" {
		pc.Preview.Host = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_PREVIEW_PORT")); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("DECKHAND_PREVIEW_PORT: %w", err)
		}
		pc.Preview.Port = port
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_LOG_LEVEL")); value != "" {
		pc.Logging.Level = value
	}
	if value := strings.TrimSpace(os.Getenv("DECKHAND_LOG_MAX_SIZE_MB")); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("DECKHAND_LOG_MAX_SIZE_MB: %w", err)
		}
		pc.Logging.MaxSizeMB = size
	}
	return nil
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Service.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Service.BaseURL), "/")
	pc.Session.Backend = strings.ToLower(strings.TrimSpace(pc.Session.Backend))
	pc.Session.RedisURL = strings.TrimSpace(pc.Session.RedisURL)
	if pc.Session.Backend == string(session.BackendFile) && strings.TrimSpace(pc.Session.Path) == "" {
		pc.Session.Path = filepath.Join("state", "session.json")
	}
	pc.Session.Path = resolvePath(base, pc.Session.Path)
	if pc.Session.Backend == string(session.BackendRedis) && pc.Session.KeyPrefix == "" {
		pc.Session.KeyPrefix = defaultKeyPrefix
	}
	pc.Generation.Order = strings.ToLower(strings.TrimSpace(pc.Generation.Order))
	pc.Preview.Host = strings.TrimSpace(pc.Preview.Host)
	if pc.Preview.Host == "" {
		pc.Preview.Host = defaultPreviewHost
	}
	pc.Export.Filename = filepath.Base(strings.TrimSpace(pc.Export.Filename))
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if !strings.HasPrefix(pc.Service.BaseURL, "http://") && !strings.HasPrefix(pc.Service.BaseURL, "https://") {
		return fmt.Errorf("service.base_url must start with http:// or https://")
	}
	backend, err := session.ParseBackend(pc.Session.Backend)
	if err != nil {
		return fmt.Errorf("session.backend: %w", err)
	}
	if backend == session.BackendRedis && pc.Session.RedisURL == "" {
		return fmt.Errorf("session.redis_url is required for the redis backend")
	}
	if _, err := slides.ParseOrderPolicy(pc.Generation.Order); err != nil {
		return fmt.Errorf("generation.order: %w", err)
	}
	if pc.Preview.Port < 0 || pc.Preview.Port > 65535 {
		return fmt.Errorf("preview.port must be between 0 and 65535")
	}
	switch pc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
