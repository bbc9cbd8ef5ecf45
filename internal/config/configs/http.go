package configs

import "time"

// HTTP configures the inbound HTTP server.
type HTTP struct {
	// Port is the TCP port the server binds to.
	Port uint16 `env:"PORT" envDefault:"8080"`

	// ShutdownTimeout bounds how long graceful shutdown waits for in-flight
	// requests, tracking pixels included, before the listener is torn down.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
