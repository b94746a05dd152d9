// Package database is the optional database collaborator of the shop API.
// The service itself never stores anything; the collaborator only exists
// so operators can verify that a database provisioned next to the service
// is reachable.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ErrModuleNotFound is returned by Resolve when the database module has
// not been enabled for this deployment.
var ErrModuleNotFound = errors.New("database module not found")

// Handle is an initialized connection to the collaborator database.
type Handle interface {
	// Name is the database name, or "" when it cannot be determined.
	Name() string
	// ListCollections returns at most limit table names.
	ListCollections(ctx context.Context, limit int) ([]string, error)
}

// Collaborator resolves the optional database handle.  Resolve returns
// one of:
//   - nil, ErrModuleNotFound: the module is not installed
//   - nil, nil:               installed but not initialized
//   - h, nil:                 installed and initialized
//   - nil, err:               resolution failed for another reason
type Collaborator interface {
	Resolve(ctx context.Context) (Handle, error)
}

var collectionQueries = map[string]string{
	"mysql":    "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name LIMIT ?",
	"postgres": "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name LIMIT $1",
}

// Conn is a Handle backed by a sqlx pool.
type Conn struct {
	db     *sqlx.DB
	driver string
	name   string
}

// NewConn wraps an open pool.  driver selects the SQL dialect.
func NewConn(db *sqlx.DB, driver, name string) *Conn {
	return &Conn{db: db, driver: driver, name: name}
}

func (c *Conn) Name() string { return c.name }

func (c *Conn) ListCollections(ctx context.Context, limit int) ([]string, error) {
	q, ok := collectionQueries[c.driver]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, c.driver)
	}
	names := []string{}
	if err := c.db.SelectContext(ctx, &names, q, limit); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// Close releases the pool.
func (c *Conn) Close() error { return c.db.Close() }

// ModuleConfig holds the settings of the database module.
type ModuleConfig struct {
	Enabled bool   // DATABASE_ENABLED
	URL     string // DATABASE_URL
	Name    string // DATABASE_NAME, overrides the name found in URL
}

// Module is the Collaborator used by the running service.  It is set up
// once at startup and never changes afterwards.
type Module struct {
	enabled bool
	conn    *Conn
	err     error
}

// NewModule opens the collaborator connection when the module is enabled
// and a URL is configured.  Connection failures leave the module
// uninitialized; they are logged, not returned, because the service must
// start without its database.
func NewModule(ctx context.Context, cfg ModuleConfig, log logrus.FieldLogger) *Module {
	m := &Module{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return m
	}
	if cfg.URL == "" {
		log.Warn("database module enabled but DATABASE_URL is empty")
		return m
	}

	t, err := parseURL(cfg.URL)
	if err != nil {
		m.err = err
		log.WithError(err).Warn("database url rejected")
		return m
	}
	name := t.name
	if cfg.Name != "" {
		name = cfg.Name
	}

	db, err := Open(ctx, t.driver, t.dsn)
	if err != nil {
		log.WithError(err).WithField("driver", t.driver).Warn("database unreachable, module left uninitialized")
		return m
	}
	log.WithFields(logrus.Fields{"driver": t.driver, "database": name}).Info("database module connected")
	m.conn = NewConn(db, t.driver, name)
	return m
}

// NewModuleWithConn returns an enabled module around an existing handle.
func NewModuleWithConn(conn *Conn) *Module {
	return &Module{enabled: true, conn: conn}
}

func (m *Module) Resolve(ctx context.Context) (Handle, error) {
	if m == nil || !m.enabled {
		return nil, ErrModuleNotFound
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.conn == nil {
		return nil, nil
	}
	return m.conn, nil
}

// Close releases the connection, if any.
func (m *Module) Close() error {
	if m == nil || m.conn == nil {
		return nil
	}
	return m.conn.Close()
}
