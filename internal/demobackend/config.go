package demobackend

import "time"

// Config holds configuration for the demo backend.
type Config struct {
	// Port is the port on which the demo backend listens.
	Port int

	// Latency delays every scan response to make the loading state visible.
	Latency time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:    5000,
		Latency: 1500 * time.Millisecond,
	}
}
