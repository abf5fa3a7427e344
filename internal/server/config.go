package server

import (
	"time"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/webclient"
)

type Config struct {
	// ListenAddr is the HTTP listen address of the dashboard.
	ListenAddr string

	// BackendURL is the base URL of the scan service. Scan requests, the
	// feed and report downloads all go there.
	BackendURL string

	// StorageRoot holds the report ledger database.
	StorageRoot string

	// WebClientCfg configures the client used to reach the backend.
	WebClientCfg webclient.Config

	// Client overrides the backend client built from WebClientCfg.
	Client webclient.WebClient

	Sessions dashboard.SessionConfig

	// PruneInterval is how often idle sessions are evicted.
	PruneInterval time.Duration

	// StreamBuffer is the per-WebSocket update buffer.
	StreamBuffer int

	Logger logging.Logger
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		BackendURL:  "http://127.0.0.1:5000",
		StorageRoot: "~/.config/spectre",
		WebClientCfg: webclient.Config{
			Client:       webclient.ClientNetHTTP,
			Timeout:      5 * time.Minute,
			MaxBodyBytes: webclient.DefaultMaxBodyBytes,
		},
		Sessions:      dashboard.DefaultSessionConfig(),
		PruneInterval: time.Minute,
		StreamBuffer:  64,
	}
}
