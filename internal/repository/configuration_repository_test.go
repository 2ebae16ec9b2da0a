package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestConfigurationRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "type", "group", "description", "is_public", "updated_by", "updated_at"}).
		AddRow("site_name", "TEZ Capital", "string", "general", "Site title", true, nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM configurations WHERE key = \\$1").
		WithArgs("site_name").
		WillReturnRows(rows)

	cfg, err := repo.Get(context.Background(), "site_name")
	require.NoError(t, err)
	assert.Equal(t, "TEZ Capital", cfg.Value)
	assert.Equal(t, models.ConfigGroupGeneral, cfg.Group)
	assert.True(t, cfg.IsPublic)
}

func TestConfigurationRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM configurations WHERE key = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestConfigurationRepositoryListPublic(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "type", "group", "description", "is_public", "updated_by", "updated_at"}).
		AddRow("site_name", "TEZ Capital", "string", "general", nil, true, nil, time.Now()).
		AddRow("maintenance_mode", "false", "boolean", "maintenance", nil, true, nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM configurations WHERE is_public = true").
		WillReturnRows(rows)

	configs, err := repo.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "site_name", configs[0].Key)
}

func TestConfigurationRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectExec("INSERT INTO configurations").
		WithArgs("site_name", "TEZ Capital", "string", "general", nil, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := &models.Configuration{
		Key:   "site_name",
		Value: "TEZ Capital",
		Type:  models.ConfigTypeString,
		Group: models.ConfigGroupGeneral,
	}
	require.NoError(t, repo.Upsert(context.Background(), cfg))
	assert.False(t, cfg.UpdatedAt.IsZero())
}

func TestConfigurationRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO configurations").
		WithArgs("site_name", "TEZ Capital", "string", "general", nil, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO configurations").
		WithArgs("maintenance_mode", "true", "boolean", "maintenance", nil, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	items := []models.Configuration{
		{Key: "site_name", Value: "TEZ Capital", Type: models.ConfigTypeString, Group: models.ConfigGroupGeneral},
		{Key: "maintenance_mode", Value: "true", Type: models.ConfigTypeBoolean, Group: models.ConfigGroupMaintenance},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurationRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectExec("DELETE FROM configurations WHERE key = \\$1").
		WithArgs("site_name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "site_name"))
}
