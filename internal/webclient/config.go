package webclient

import "time"

// Config carries the transport settings shared by backends.
type Config struct {
	// Timeout bounds a whole request including body read.
	Timeout time.Duration

	// UserAgent is sent on every request so targets can identify the scanner.
	UserAgent string
}

// DefaultConfig matches the published client identity and fetch deadline.
func DefaultConfig() Config {
	return Config{
		Timeout:   12 * time.Second,
		UserAgent: "SiteGuard/1.1 (+sandbox proxy)",
	}
}
