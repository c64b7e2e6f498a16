package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skateparkfinder/skatepark-backend/pkg/config"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return &Client{conn: conn, dialect: conn.Dialector.Name()}, mock
}

func TestPingDelegatesToPool(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectPing()

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingSurfacesFailure(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	require.Error(t, client.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseClosesPool(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectClose()

	require.NoError(t, client.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewOpensSQLite(t *testing.T) {
	storage := config.StorageConfig{Driver: config.StorageDriverSQLite}
	cfg := config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "skateparks.db")}

	client, err := New(context.Background(), storage, cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, "sqlite", client.Dialect())
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewRejectsMemoryDriver(t *testing.T) {
	storage := config.StorageConfig{Driver: config.StorageDriverMemory}
	_, err := New(context.Background(), storage, config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestNewRequiresPostgresDSN(t *testing.T) {
	storage := config.StorageConfig{Driver: config.StorageDriverPostgres}
	_, err := New(context.Background(), storage, config.DBConfig{}, nil)
	require.Error(t, err)
}
