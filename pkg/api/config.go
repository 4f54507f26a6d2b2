package api

import "time"

// Config configures the HTTP server that exposes /health and /metrics.
type Config struct {
	// Port to listen on. Zero picks a free port.
	Port int

	// ReadTimeout bounds reading a request. Default: 10s
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response. Default: 10s
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive idling. Default: 60s
	IdleTimeout time.Duration
}

// applyDefaults fills in zero timeouts.
func (c *Config) applyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
}
