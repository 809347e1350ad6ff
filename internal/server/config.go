package server

import "time"

// Config holds server configuration.
type Config struct {
	// Host and Port form the bind address.
	Host string
	Port int

	// PathPrefix prefixes the API routes (default /api/v1).
	PathPrefix string

	// DBPath is the persisted catalog document (default db.json).
	DBPath string

	// PublicDir, when set, is served as static files at /. The web client
	// is an external collaborator; the server works without it.
	PublicDir string

	// CORS settings.
	CORSEnabled bool
	CORSOrigins []string

	// HTTP timeouts.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:        "localhost",
		Port:        3000,
		PathPrefix:  "/api/v1",
		DBPath:      "db.json",
		CORSEnabled: true,
		ReadTimeout: 10 * time.Second,
		// WriteTimeout must accommodate long-lived SSE streams, so it is
		// left at zero (no limit) unless overridden.
		IdleTimeout: 120 * time.Second,
	}
}
