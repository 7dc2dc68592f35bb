package pg

import (
	"net/url"
	"strconv"
	"strings"
)

// DSNConfig holds the parts of a PostgreSQL connection string.
type DSNConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// ApplicationName shows up in pg_stat_activity and server logs.
	ApplicationName string
	ConnectTimeout  int
}

// BuildDSN assembles a postgres:// URL from structured parts, applying
// localhost:5432 and sslmode=disable defaults.
func BuildDSN(cfg DSNConfig) string {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	var dsn strings.Builder
	dsn.WriteString("postgres://")

	if cfg.User != "" {
		dsn.WriteString(url.QueryEscape(cfg.User))
		if cfg.Password != "" {
			dsn.WriteString(":")
			dsn.WriteString(url.QueryEscape(cfg.Password))
		}
		dsn.WriteString("@")
	}

	dsn.WriteString(cfg.Host)
	dsn.WriteString(":")
	dsn.WriteString(strconv.Itoa(cfg.Port))

	if cfg.Database != "" {
		dsn.WriteString("/")
		dsn.WriteString(url.QueryEscape(cfg.Database))
	}

	params := url.Values{}
	params.Set("sslmode", cfg.SSLMode)
	if cfg.ApplicationName != "" {
		params.Set("application_name", cfg.ApplicationName)
	}
	if cfg.ConnectTimeout > 0 {
		params.Set("connect_timeout", strconv.Itoa(cfg.ConnectTimeout))
	}

	dsn.WriteString("?")
	dsn.WriteString(params.Encode())

	return dsn.String()
}
