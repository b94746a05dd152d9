// Package diagnostics implements the /test status report: which parts of
// the optional database setup are present and reachable.  A probe never
// fails; every problem is folded into the report as a display string.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/skyblock-shop/internal/database"
	"github.com/iliyamo/skyblock-shop/internal/metrics"
)

// Display limits of the report.
const (
	maxCollections = 10
	maxErrorChars  = 50
)

// Status strings shown in the report.
const (
	BackendRunning = "✅ Running"

	DBNotAvailable       = "❌ Not Available"
	DBModuleNotFound     = "❌ Database module not found (run enable-database first)"
	DBNotInitialized     = "⚠️  Available but not initialized"
	DBAvailable          = "✅ Available"
	DBWorking            = "✅ Connected & Working"
	dbListErrorPrefix    = "⚠️  Connected but Error: "
	dbResolveErrorPrefix = "❌ Error: "

	URLConfigured = "✅ Configured"
	NameConnected = "✅ Connected"
	Connected     = "Connected"
	NotConnected  = "Not Connected"
	EnvSet        = "✅ Set"
	EnvNotSet     = "❌ Not Set"
)

// Report is the JSON document returned by the diagnostics endpoint.
type Report struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Probe checks the database collaborator and the DATABASE_URL and
// DATABASE_NAME variables.
type Probe struct {
	DB     database.Collaborator // nil is treated as "module not found"
	Getenv func(string) string   // defaults to os.Getenv
	Log    logrus.FieldLogger    // optional
}

// New returns a Probe reading the process environment.
func New(db database.Collaborator, log logrus.FieldLogger) *Probe {
	return &Probe{DB: db, Getenv: os.Getenv, Log: log}
}

// Run builds a report.  The collaborator step and the environment step
// are independent: the latter runs whatever the former concluded, and its
// markers replace any url/name values set while resolving the handle.
func (p *Probe) Run(ctx context.Context) Report {
	r := Report{
		Backend:          BackendRunning,
		Database:         DBNotAvailable,
		ConnectionStatus: NotConnected,
		Collections:      []string{},
	}

	outcome := p.checkDatabase(ctx, &r)
	metrics.ObserveProbe(outcome)

	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	r.DatabaseURL = strPtr(envMarker(getenv("DATABASE_URL")))
	r.DatabaseName = strPtr(envMarker(getenv("DATABASE_NAME")))

	if p.Log != nil {
		p.Log.WithFields(logrus.Fields{"outcome": outcome, "database": r.Database}).Debug("diagnostics probe")
	}
	return r
}

// checkDatabase fills the collaborator part of r and returns a short
// outcome label for metrics and logs.  Panics from the collaborator are
// recovered and reported like any other resolution error.
func (p *Probe) checkDatabase(ctx context.Context, r *Report) (outcome string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Database = dbResolveErrorPrefix + truncate(fmt.Sprint(rec), maxErrorChars)
			outcome = "error"
		}
	}()

	if p.DB == nil {
		r.Database = DBModuleNotFound
		return "not_found"
	}

	h, err := p.DB.Resolve(ctx)
	switch {
	case errors.Is(err, database.ErrModuleNotFound):
		r.Database = DBModuleNotFound
		return "not_found"
	case err != nil:
		r.Database = dbResolveErrorPrefix + truncate(err.Error(), maxErrorChars)
		return "error"
	case h == nil:
		r.Database = DBNotInitialized
		return "uninitialized"
	}

	r.Database = DBAvailable
	r.DatabaseURL = strPtr(URLConfigured)
	name := h.Name()
	if name == "" {
		name = NameConnected
	}
	r.DatabaseName = strPtr(name)
	r.ConnectionStatus = Connected
	if p.Log != nil {
		p.Log.WithField("database_name", name).Debug("database handle resolved")
	}

	names, err := h.ListCollections(ctx, maxCollections)
	if err != nil {
		r.Database = dbListErrorPrefix + truncate(err.Error(), maxErrorChars)
		return "list_error"
	}
	if len(names) > maxCollections {
		names = names[:maxCollections]
	}
	if names != nil {
		r.Collections = names
	}
	r.Database = DBWorking
	return "working"
}

func envMarker(v string) string {
	if v != "" {
		return EnvSet
	}
	return EnvNotSet
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func strPtr(s string) *string { return &s }
