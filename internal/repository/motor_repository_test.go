package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/models"
)

var motorTestColumns = []string{"id", "name", "price", "area", "period", "image", "installment_plans", "is_active", "created_at", "updated_at"}

const testPlansJSON = `[{"dp_percent":"20","dp_amount":"4000000","installments":{"11_months":"1600000","23_months":"850000"}}]`

func TestMotorRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	rows := sqlmock.NewRows(motorTestColumns).
		AddRow("motor-1", "Vario 160", "28000000", "Jakarta", "2026", nil, []byte(testPlansJSON), true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM motors WHERE id = \\$1").
		WithArgs("motor-1").
		WillReturnRows(rows)

	motor, err := repo.FindByID(context.Background(), "motor-1")
	require.NoError(t, err)

	assert.Equal(t, "Vario 160", motor.Name)
	assert.True(t, motor.Price.Equal(decimal.NewFromInt(28000000)))
	require.Len(t, motor.InstallmentPlans, 1)
	plan := motor.InstallmentPlans[0]
	assert.True(t, plan.DPAmount.Equal(decimal.NewFromInt(4000000)))
	assert.True(t, plan.Installments["11_months"].Equal(decimal.NewFromInt(1600000)))
}

func TestMotorRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM motors WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestMotorRepositoryFindByIDEmptyPlans(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	rows := sqlmock.NewRows(motorTestColumns).
		AddRow("motor-2", "Beat Street", "19000000", "Surabaya", "2026", nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM motors WHERE id = \\$1").
		WithArgs("motor-2").
		WillReturnRows(rows)

	motor, err := repo.FindByID(context.Background(), "motor-2")
	require.NoError(t, err)
	assert.Empty(t, motor.InstallmentPlans)
}

func TestMotorRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	rows := sqlmock.NewRows(motorTestColumns).
		AddRow("motor-1", "Vario 160", "28000000", "Jakarta", "2026", nil, []byte(testPlansJSON), true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM motors WHERE 1=1 AND area = \\$1 AND is_active = \\$2 AND LOWER\\(name\\) LIKE \\$3 ORDER BY price ASC").
		WithArgs("Jakarta", true, "%vario%").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM motors WHERE 1=1 AND area = \\$1 AND is_active = \\$2 AND LOWER\\(name\\) LIKE \\$3").
		WithArgs("Jakarta", true, "%vario%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	motors, total, err := repo.List(context.Background(), models.MotorFilter{
		Area:      "Jakarta",
		Active:    &active,
		Search:    "Vario",
		SortBy:    "price",
		SortOrder: "asc",
		Page:      1,
		PageSize:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, motors, 1)
	assert.Equal(t, "motor-1", motors[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMotorRepositoryListDefaultsSort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	// Unknown sort column and order fall back to created_at DESC.
	mock.ExpectQuery("SELECT (.+) FROM motors WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(sqlmock.NewRows(motorTestColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM motors WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.MotorFilter{SortBy: "price; DROP TABLE motors", SortOrder: "sideways"})
	require.NoError(t, err)
	assert.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMotorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	mock.ExpectExec("INSERT INTO motors").
		WillReturnResult(sqlmock.NewResult(0, 1))

	motor := &models.Motor{
		Name:   "Vario 160",
		Price:  decimal.NewFromInt(28000000),
		Area:   "Jakarta",
		Period: "2026",
		InstallmentPlans: models.InstallmentPlanList{{
			DPAmount:     decimal.NewFromInt(4000000),
			Installments: map[string]decimal.Decimal{"11_months": decimal.NewFromInt(1600000)},
		}},
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), motor))

	assert.NotEmpty(t, motor.ID)
	assert.False(t, motor.CreatedAt.IsZero())
	assert.Equal(t, motor.CreatedAt, motor.UpdatedAt)
}

func TestMotorRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	mock.ExpectExec("UPDATE motors SET is_active = \\$2, updated_at = \\$3 WHERE id = \\$1").
		WithArgs("motor-1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(context.Background(), "motor-1", false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMotorRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMotorRepository(db)

	mock.ExpectExec("DELETE FROM motors WHERE id = \\$1").
		WithArgs("motor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "motor-1"))
}
