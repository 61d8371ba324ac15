// Package webclient abstracts the HTTP transport used by the fetch boundary.
package webclient

import "context"

// WebClient executes requests against target pages. Implementations must be
// safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
