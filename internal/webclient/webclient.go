// Package webclient is the transport the dashboard uses to reach the scan
// backend. Backends are registered by name and chosen from config.
package webclient

import "context"

type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
