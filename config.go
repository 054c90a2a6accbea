package xtdb

import (
	"net"
	"net/url"
	"os"
	"strconv"
)

// Defaults for a local XTDB node.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 5432
	DefaultFlightPort = 9833
	DefaultDatabase   = "xtdb"
	DefaultUser       = "xtdb"
)

// FormatTransit asks the server to render column types without a Postgres
// wire representation as transit-JSON text.
const FormatTransit = "transit"

// Config defines how to reach an XTDB node.
type Config struct {
	// Host is the node to connect to. Defaults to localhost.
	Host string
	// Port is the Postgres wire protocol port. Defaults to 5432.
	Port int
	// FlightPort is the Arrow Flight SQL port. Defaults to 9833.
	FlightPort int
	// Database is the database name. Defaults to xtdb.
	Database string
	// User is the connection user. Defaults to xtdb.
	User string
	// Password is optional; a local node does not require one.
	Password string
	// FallbackOutputFormat selects how the server renders column types
	// that have no Postgres wire representation. Set to FormatTransit to
	// receive transit-JSON text for those columns.
	FallbackOutputFormat string
	// Params are extra DSN query parameters.
	Params map[string]string
}

// LoadConfig builds a Config from the XTDB_HOST, XTDB_PG_PORT and
// XTDB_FLIGHT_PORT environment variables, falling back to defaults.
func LoadConfig() *Config {
	cfg := &Config{Host: os.Getenv("XTDB_HOST")}
	if port, err := strconv.Atoi(os.Getenv("XTDB_PG_PORT")); err == nil {
		cfg.Port = port
	}
	if port, err := strconv.Atoi(os.Getenv("XTDB_FLIGHT_PORT")); err == nil {
		cfg.FlightPort = port
	}
	return cfg
}

// DSN renders the postgres:// connection string for the node.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.host(), strconv.Itoa(c.port())),
		Path:   "/" + c.database(),
	}
	if user := c.user(); user != "" {
		if c.Password != "" {
			u.User = url.UserPassword(user, c.Password)
		} else {
			u.User = url.User(user)
		}
	}
	q := url.Values{}
	if c.FallbackOutputFormat != "" {
		q.Set("fallback_output_format", c.FallbackOutputFormat)
	}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// FlightURI renders the grpc:// endpoint of the node's Arrow Flight SQL
// server.
func (c *Config) FlightURI() string {
	return "grpc://" + net.JoinHostPort(c.host(), strconv.Itoa(c.flightPort()))
}

func (c *Config) host() string {
	if c.Host != "" {
		return c.Host
	}
	return DefaultHost
}

func (c *Config) port() int {
	if c.Port != 0 {
		return c.Port
	}
	return DefaultPort
}

func (c *Config) flightPort() int {
	if c.FlightPort != 0 {
		return c.FlightPort
	}
	return DefaultFlightPort
}

func (c *Config) database() string {
	if c.Database != "" {
		return c.Database
	}
	return DefaultDatabase
}

func (c *Config) user() string {
	if c.User != "" {
		return c.User
	}
	return DefaultUser
}
