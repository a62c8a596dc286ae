package sse

import "time"

// Config holds configuration for SSE connections.
type Config struct {
	// KeepAliveInterval is how often a comment frame is written to keep
	// proxies from timing out idle subscriptions.
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration.
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 30 * time.Second,
	}
}
