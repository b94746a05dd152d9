package database

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMockConn(t *testing.T, driver string) (*Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewConn(sqlx.NewDb(db, "sqlmock"), driver, "shop"), mock
}

func TestConn_ListCollections_MySQL(t *testing.T) {
	conn, mock := newMockConn(t, "mysql")

	mock.ExpectQuery(regexp.QuoteMeta(collectionQueries["mysql"])).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("accounts").AddRow("coins"))

	names, err := conn.ListCollections(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "coins"}, names)
	assert.Equal(t, "shop", conn.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_ListCollections_PostgresEmpty(t *testing.T) {
	conn, mock := newMockConn(t, "postgres")

	mock.ExpectQuery(regexp.QuoteMeta(collectionQueries["postgres"])).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	names, err := conn.ListCollections(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_ListCollections_Error(t *testing.T) {
	conn, mock := newMockConn(t, "mysql")

	boom := errors.New("access denied for user")
	mock.ExpectQuery("information_schema").WillReturnError(boom)

	_, err := conn.ListCollections(context.Background(), 10)
	assert.ErrorIs(t, err, boom)
}

func TestConn_ListCollections_UnknownDialect(t *testing.T) {
	conn, _ := newMockConn(t, "sqlite")

	_, err := conn.ListCollections(context.Background(), 10)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestModule_Resolve(t *testing.T) {
	ctx := context.Background()
	log := quietLogger()

	t.Run("disabled", func(t *testing.T) {
		h, err := NewModule(ctx, ModuleConfig{URL: "postgres://db/shop"}, log).Resolve(ctx)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	t.Run("nil module", func(t *testing.T) {
		var m *Module
		_, err := m.Resolve(ctx)
		assert.ErrorIs(t, err, ErrModuleNotFound)
		assert.NoError(t, m.Close())
	})

	t.Run("enabled without url", func(t *testing.T) {
		h, err := NewModule(ctx, ModuleConfig{Enabled: true}, log).Resolve(ctx)
		assert.Nil(t, h)
		assert.NoError(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		h, err := NewModule(ctx, ModuleConfig{Enabled: true, URL: "mongodb://localhost/shop"}, log).Resolve(ctx)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("with connection", func(t *testing.T) {
		conn, _ := newMockConn(t, "mysql")
		h, err := NewModuleWithConn(conn).Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "shop", h.Name())
	})
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw    string
		driver string
		name   string
		addr   string
	}{
		{
			raw:    "postgres://shop:secret@db:5432/skyblock?sslmode=disable",
			driver: "postgres",
			name:   "skyblock",
		},
		{
			raw:    "postgresql://db/store",
			driver: "postgres",
			name:   "store",
		},
		{
			raw:    "mysql://shop:secret@db:3307/skyblock",
			driver: "mysql",
			name:   "skyblock",
			addr:   "db:3307",
		},
		{
			raw:    "mysql://root@db/skyblock",
			driver: "mysql",
			name:   "skyblock",
			addr:   "db:3306",
		},
		{
			raw:    "mysql://root@[::1]/skyblock",
			driver: "mysql",
			name:   "skyblock",
			addr:   "[::1]:3306",
		},
		{
			raw:    "shop:pw@tcp(127.0.0.1:3306)/skyblock",
			driver: "mysql",
			name:   "skyblock",
			addr:   "127.0.0.1:3306",
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, got.driver)
			assert.Equal(t, tt.name, got.name)
			if tt.driver == "postgres" {
				assert.Equal(t, tt.raw, got.dsn)
				return
			}
			cfg, err := mysql.ParseDSN(got.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, cfg.Addr)
			assert.Equal(t, "tcp", cfg.Net)
			assert.Equal(t, tt.name, cfg.DBName)
			assert.True(t, cfg.ParseTime)
		})
	}
}

func TestParseURL_Unsupported(t *testing.T) {
	_, err := parseURL("mongodb+srv://cluster0.example.net/shop")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
	assert.Contains(t, err.Error(), `"mongodb+srv"`)
}

func TestParseURL_MySQLQueryParams(t *testing.T) {
	got, err := parseURL("mysql://shop:pw@db/skyblock?tls=true&autocommit=true&parseTime=false")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(got.dsn)
	require.NoError(t, err)
	assert.Equal(t, "true", cfg.TLSConfig)
	assert.Equal(t, "true", cfg.Params["autocommit"])
	// parseTime and loc stay fixed whatever the URL asks for
	assert.True(t, cfg.ParseTime)
}

func TestParseURL_MySQLBadQuery(t *testing.T) {
	_, err := parseURL("mysql://db/skyblock?timeout=soon")
	assert.Error(t, err)
}
