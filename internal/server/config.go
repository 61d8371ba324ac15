package server

import (
	"github.com/siteguard/siteguard/internal/logging"
	"github.com/siteguard/siteguard/internal/webclient"
)

// Config wires the server's collaborators and listen address.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// HistoryPath is the SQLite file backing the scan history.
	HistoryPath string

	// MaxConcurrency bounds parallel fetches in batch scans.
	MaxConcurrency int

	// FetchCfg configures the outbound transport (timeout, user agent).
	FetchCfg webclient.Config

	// WebClient overrides the transport; nil constructs the nethttp backend.
	// Tests inject doubles here.
	WebClient webclient.WebClient

	Logger logging.Logger
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":5000",
		HistoryPath:    "~/.config/siteguard/history.db",
		MaxConcurrency: 4,
		FetchCfg:       webclient.DefaultConfig(),
	}
}
