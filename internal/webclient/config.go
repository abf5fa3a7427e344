package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client

	// Timeout bounds a whole request, including reading the body.
	// Zero means the backend default (30s).
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// DefaultMaxBodyBytes is large enough for any scan result the backend emits.
const DefaultMaxBodyBytes = 16 << 20
