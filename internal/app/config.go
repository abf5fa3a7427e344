package app

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/server"
	"github.com/raysh454/spectre/internal/webclient"
)

// Config keys, as used in spectre.yaml and (upper-cased, SPECTRE_ prefixed)
// in the environment.
const (
	KeyListen         = "listen"
	KeyBackend        = "backend"
	KeyBackendTimeout = "backend_timeout"
	KeyStorageRoot    = "storage_root"
	KeySessionTTL     = "session_ttl"
	KeyMaxSessions    = "max_sessions"
	KeyLogLevel       = "log_level"
)

// Config is the runtime configuration of the dashboard.
type Config struct {
	Listen string `json:"listen"`

	// Backend is the base URL of the scan service.
	Backend        string        `json:"backend"`
	BackendTimeout time.Duration `json:"backend_timeout"`

	// StorageRoot is where the report ledger lives.
	StorageRoot string `json:"storage_root"`

	SessionTTL  time.Duration `json:"session_ttl"`
	MaxSessions int           `json:"max_sessions"`

	LogLevel string `json:"log_level"`

	// WebClient selects the backend client implementation.
	WebClient webclient.Client `json:"web_client"`
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	srv := server.DefaultConfig()
	sess := dashboard.DefaultSessionConfig()
	return &Config{
		Listen:         srv.ListenAddr,
		Backend:        srv.BackendURL,
		BackendTimeout: srv.WebClientCfg.Timeout,
		StorageRoot:    srv.StorageRoot,
		SessionTTL:     sess.TTL,
		MaxSessions:    sess.MaxSessions,
		LogLevel:       "info",
		WebClient:      webclient.ClientNetHTTP,
	}
}

// SetDefaults registers DefaultConfig's values with v so that unset keys
// resolve to them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyListen, d.Listen)
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyBackendTimeout, d.BackendTimeout)
	v.SetDefault(KeyStorageRoot, d.StorageRoot)
	v.SetDefault(KeySessionTTL, d.SessionTTL)
	v.SetDefault(KeyMaxSessions, d.MaxSessions)
	v.SetDefault(KeyLogLevel, d.LogLevel)
}

// Load resolves a Config from v (flags, environment, config file and
// defaults, in viper's precedence order) and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Listen = v.GetString(KeyListen)
	cfg.Backend = v.GetString(KeyBackend)
	cfg.BackendTimeout = v.GetDuration(KeyBackendTimeout)
	cfg.StorageRoot = v.GetString(KeyStorageRoot)
	cfg.SessionTTL = v.GetDuration(KeySessionTTL)
	cfg.MaxSessions = v.GetInt(KeyMaxSessions)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%s must not be empty", KeyListen)
	}
	u, err := url.Parse(c.Backend)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", KeyBackend, c.Backend)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyBackendTimeout)
	}
	if c.StorageRoot == "" {
		return fmt.Errorf("%s must not be empty", KeyStorageRoot)
	}
	if c.SessionTTL < 0 || c.MaxSessions < 0 {
		return fmt.Errorf("%s and %s must not be negative", KeySessionTTL, KeyMaxSessions)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error; got %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}

// ServerConfig translates c into the server's configuration.
func (c *Config) ServerConfig(logger logging.Logger) server.Config {
	cfg := server.DefaultConfig()
	cfg.ListenAddr = c.Listen
	cfg.BackendURL = c.Backend
	cfg.StorageRoot = c.StorageRoot
	cfg.WebClientCfg.Client = c.WebClient
	cfg.WebClientCfg.Timeout = c.BackendTimeout
	cfg.Sessions.TTL = c.SessionTTL
	cfg.Sessions.MaxSessions = c.MaxSessions
	cfg.Logger = logger
	return cfg
}
