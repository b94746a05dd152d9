package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrUnsupportedDriver is returned for DATABASE_URL schemes that have no
// registered driver.
var ErrUnsupportedDriver = errors.New("unsupported database url scheme")

// target is a parsed DATABASE_URL.
type target struct {
	driver string // database/sql driver name
	dsn    string // driver specific data source name
	name   string // database name, empty if the URL has none
}

// parseURL accepts postgres:// and postgresql:// URLs (lib/pq takes them
// as-is), mysql:// URLs (rewritten to a go-sql-driver DSN) and bare
// go-sql-driver DSNs such as "user:pass@tcp(host:3306)/shop".
func parseURL(raw string) (target, error) {
	scheme, _, hasScheme := strings.Cut(raw, "://")
	if !hasScheme {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return target{}, fmt.Errorf("parse mysql dsn: %w", err)
		}
		applyMySQLDefaults(cfg)
		return target{driver: "mysql", dsn: cfg.FormatDSN(), name: cfg.DBName}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return target{}, fmt.Errorf("parse database url: %w", err)
	}
	name := strings.TrimPrefix(u.Path, "/")

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return target{driver: "postgres", dsn: raw, name: name}, nil
	case "mysql":
		cfg := mysql.NewConfig()
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(u.Hostname(), port)
		cfg.DBName = name
		// query parameters use the DSN option names (tls, charset, timeout...),
		// so the driver parses them the same way it parses a bare DSN.
		if u.RawQuery != "" {
			base, sep := cfg.FormatDSN(), "?"
			if strings.Contains(base, "?") {
				sep = "&"
			}
			parsed, err := mysql.ParseDSN(base + sep + u.RawQuery)
			if err != nil {
				return target{}, fmt.Errorf("parse mysql url options: %w", err)
			}
			cfg = parsed
		}
		applyMySQLDefaults(cfg)
		return target{driver: "mysql", dsn: cfg.FormatDSN(), name: name}, nil
	default:
		return target{}, fmt.Errorf("%w %q", ErrUnsupportedDriver, scheme)
	}
}

// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
func applyMySQLDefaults(cfg *mysql.Config) {
	cfg.ParseTime = true
	cfg.Loc = time.UTC
}
