package server

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Scheduling Modes / Store Implementations
// --------------------------------------------------------------------------

const (
	// ModePool serves connections on the fixed worker pool: at most
	// Workers connections are handled in parallel, the rest queue up.
	ModePool = "pool"
	// ModeSpawn serves every connection on its own goroutine, unbounded.
	ModeSpawn = "spawn"
)

const (
	// StoreLock selects the RWMutex-guarded map store.
	StoreLock = "lock"
	// StoreShard selects the sharded concurrent-map store.
	StoreShard = "shard"
)

// --------------------------------------------------------------------------
// Server Configuration
// --------------------------------------------------------------------------

// Config holds all configuration parameters for the server.
type Config struct {
	// Listen address
	Host string
	Port int

	// Scheduling
	Mode    string // pool or spawn
	Workers int    // worker count for ModePool, must be >= 1

	// Store implementation: lock or shard
	StoreImpl string

	// Protocol variant: plain or typed
	Proto string

	// Per-connection read/write deadline in seconds, 0 = none
	TimeoutSecond int64

	// Optional Prometheus endpoint (e.g. 127.0.0.1:9100), empty = off
	MetricsAddr string

	// Logging configuration
	LogLevel string
	LogFile  string
}

// DefaultConfig returns the server defaults: the plain protocol on
// 127.0.0.1:7878 with a pool of four workers and the lock store.
func DefaultConfig() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      7878,
		Mode:      ModePool,
		Workers:   4,
		StoreImpl: StoreLock,
		Proto:     "plain",
		LogLevel:  "info",
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the configuration for usage errors. A pool of zero
// workers is one: the server could never serve a connection.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePool:
		if c.Workers < 1 {
			return fmt.Errorf("worker count must be >= 1, got %d", c.Workers)
		}
	case ModeSpawn:
		// worker count is ignored
	default:
		return fmt.Errorf("invalid mode %q (expected %s or %s)", c.Mode, ModePool, ModeSpawn)
	}

	switch c.StoreImpl {
	case StoreLock, StoreShard:
	default:
		return fmt.Errorf("invalid store %q (expected %s or %s)", c.StoreImpl, StoreLock, StoreShard)
	}

	return nil
}

// String returns a formatted string representation of the configuration.
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Server")
	addField("Listen Address", c.Addr())
	addField("Protocol", c.Proto)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Scheduling")
	addField("Mode", c.Mode)
	if c.Mode == ModePool {
		addField("Workers", strconv.Itoa(c.Workers))
	}

	addSection("Store")
	addField("Implementation", c.StoreImpl)

	if c.MetricsAddr != "" {
		addSection("Metrics")
		addField("Endpoint", c.MetricsAddr)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	if c.LogFile != "" {
		addField("Log File", c.LogFile)
	}

	return sb.String()
}
