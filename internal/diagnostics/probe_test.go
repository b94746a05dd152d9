package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/skyblock-shop/internal/database"
)

type fakeHandle struct {
	name  string
	names []string
	err   error
	limit int
}

func (h *fakeHandle) Name() string { return h.name }

func (h *fakeHandle) ListCollections(ctx context.Context, limit int) ([]string, error) {
	h.limit = limit
	return h.names, h.err
}

type fakeCollaborator struct {
	handle database.Handle
	err    error
	panics bool
}

func (f fakeCollaborator) Resolve(ctx context.Context) (database.Handle, error) {
	if f.panics {
		panic("driver exploded while resolving the handle")
	}
	return f.handle, f.err
}

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func newProbe(db database.Collaborator, vars map[string]string) *Probe {
	return &Probe{DB: db, Getenv: env(vars)}
}

func TestRun_ModuleNotFound(t *testing.T) {
	r := newProbe(fakeCollaborator{err: database.ErrModuleNotFound}, nil).Run(context.Background())

	assert.Equal(t, BackendRunning, r.Backend)
	assert.Equal(t, "❌ Database module not found (run enable-database first)", r.Database)
	assert.Equal(t, NotConnected, r.ConnectionStatus)
	assert.NotNil(t, r.Collections)
	assert.Empty(t, r.Collections)
	assert.Equal(t, EnvNotSet, *r.DatabaseURL)
	assert.Equal(t, EnvNotSet, *r.DatabaseName)
}

func TestRun_NilCollaborator(t *testing.T) {
	r := newProbe(nil, nil).Run(context.Background())
	assert.Equal(t, DBModuleNotFound, r.Database)
	assert.Empty(t, r.Collections)
}

func TestRun_WrappedModuleNotFound(t *testing.T) {
	err := fmt.Errorf("resolve: %w", database.ErrModuleNotFound)
	r := newProbe(fakeCollaborator{err: err}, nil).Run(context.Background())
	assert.Equal(t, DBModuleNotFound, r.Database)
}

func TestRun_NotInitialized(t *testing.T) {
	r := newProbe(fakeCollaborator{}, nil).Run(context.Background())

	assert.Equal(t, "⚠️  Available but not initialized", r.Database)
	assert.Equal(t, NotConnected, r.ConnectionStatus)
	assert.Empty(t, r.Collections)
}

func TestRun_ConnectedAndWorking(t *testing.T) {
	h := &fakeHandle{name: "skyblock", names: []string{"accounts", "coins"}}
	r := newProbe(fakeCollaborator{handle: h}, nil).Run(context.Background())

	assert.Equal(t, "✅ Connected & Working", r.Database)
	assert.Equal(t, Connected, r.ConnectionStatus)
	assert.Equal(t, []string{"accounts", "coins"}, r.Collections)
	assert.Equal(t, 10, h.limit)
	// environment markers replace the values found on the handle
	assert.Equal(t, EnvNotSet, *r.DatabaseURL)
	assert.Equal(t, EnvNotSet, *r.DatabaseName)
}

func TestRun_CollectionsTruncatedToTen(t *testing.T) {
	names := make([]string, 15)
	for i := range names {
		names[i] = fmt.Sprintf("t%02d", i)
	}
	r := newProbe(fakeCollaborator{handle: &fakeHandle{names: names}}, nil).Run(context.Background())

	require.Len(t, r.Collections, 10)
	assert.Equal(t, "t00", r.Collections[0])
	assert.Equal(t, "t09", r.Collections[9])
}

func TestRun_NilCollectionListStaysEmptyArray(t *testing.T) {
	r := newProbe(fakeCollaborator{handle: &fakeHandle{}}, nil).Run(context.Background())
	assert.Equal(t, DBWorking, r.Database)
	assert.NotNil(t, r.Collections)
}

func TestRun_ListError(t *testing.T) {
	long := errors.New(strings.Repeat("x", 80))
	r := newProbe(fakeCollaborator{handle: &fakeHandle{err: long}}, nil).Run(context.Background())

	assert.Equal(t, "⚠️  Connected but Error: "+strings.Repeat("x", 50), r.Database)
	assert.Equal(t, Connected, r.ConnectionStatus)
	assert.Empty(t, r.Collections)
}

func TestRun_ResolveError(t *testing.T) {
	err := errors.New("unsupported database url scheme \"mongodb\" in DATABASE_URL")
	r := newProbe(fakeCollaborator{err: err}, nil).Run(context.Background())

	assert.Equal(t, "❌ Error: "+err.Error()[:50], r.Database)
	assert.Equal(t, NotConnected, r.ConnectionStatus)
}

func TestRun_PanicIsContained(t *testing.T) {
	var r Report
	assert.NotPanics(t, func() {
		r = newProbe(fakeCollaborator{panics: true}, nil).Run(context.Background())
	})

	assert.True(t, strings.HasPrefix(r.Database, "❌ Error: driver exploded"))
	assert.Equal(t, EnvNotSet, *r.DatabaseURL)
}

func TestRun_EnvMarkersIndependentOfResolution(t *testing.T) {
	vars := map[string]string{"DATABASE_URL": "postgres://db/shop", "DATABASE_NAME": "shop"}
	collaborators := []database.Collaborator{
		nil,
		fakeCollaborator{err: database.ErrModuleNotFound},
		fakeCollaborator{},
		fakeCollaborator{err: errors.New("boom")},
		fakeCollaborator{handle: &fakeHandle{name: "shop"}},
		fakeCollaborator{handle: &fakeHandle{err: errors.New("boom")}},
	}

	for i, c := range collaborators {
		r := newProbe(c, vars).Run(context.Background())
		assert.Equal(t, "✅ Set", *r.DatabaseURL, "case %d", i)
		assert.Equal(t, "✅ Set", *r.DatabaseName, "case %d", i)

		r = newProbe(c, nil).Run(context.Background())
		assert.Equal(t, "❌ Not Set", *r.DatabaseURL, "case %d", i)
		assert.Equal(t, "❌ Not Set", *r.DatabaseName, "case %d", i)
	}
}

func TestRun_UsesProcessEnvironmentByDefault(t *testing.T) {
	t.Setenv("DATABASE_URL", "mysql://db/shop")
	t.Setenv("DATABASE_NAME", "")

	r := New(nil, nil).Run(context.Background())
	assert.Equal(t, EnvSet, *r.DatabaseURL)
	assert.Equal(t, EnvNotSet, *r.DatabaseName)
}

func TestTruncate_CountsCharacters(t *testing.T) {
	s := strings.Repeat("é", 60)
	got := truncate(s, 50)
	assert.Equal(t, 50, len([]rune(got)))
	assert.Equal(t, "short", truncate("short", 50))
}
