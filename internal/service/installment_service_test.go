package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type motorReaderStub struct {
	motor *models.Motor
	err   error
}

func (s *motorReaderStub) FindByID(ctx context.Context, id string) (*models.Motor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.motor, nil
}

func testMotor() *models.Motor {
	return &models.Motor{
		ID:       "motor-1",
		Name:     "Honda Beat",
		Price:    decimal.NewFromInt(20000000),
		Area:     "Jabodetabek",
		Period:   "2026-Q1",
		IsActive: true,
		InstallmentPlans: models.InstallmentPlanList{
			{
				DPPercent: decimal.NewFromInt(20),
				DPAmount:  decimal.NewFromInt(4000000),
				Installments: map[string]decimal.Decimal{
					"11_months": decimal.NewFromInt(1600000),
					"23_months": decimal.NewFromInt(850000),
				},
			},
			{
				DPPercent: decimal.NewFromInt(30),
				DPAmount:  decimal.NewFromInt(6000000),
				Installments: map[string]decimal.Decimal{
					"11_months": decimal.NewFromInt(1400000),
				},
			},
		},
	}
}

func TestInstallmentCalculate(t *testing.T) {
	svc := NewInstallmentService(&motorReaderStub{motor: testMotor()}, nil, nil)

	breakdown, err := svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    11,
	})
	require.NoError(t, err)

	assert.Equal(t, "motor-1", breakdown.MotorID)
	assert.Equal(t, 11, breakdown.TenorMonths)
	assert.True(t, breakdown.MonthlyInstallment.Equal(decimal.NewFromInt(1600000)))
	assert.True(t, breakdown.TotalInstallment.Equal(decimal.NewFromInt(17600000)))
	assert.True(t, breakdown.TotalPayment.Equal(decimal.NewFromInt(21600000)))
	assert.True(t, breakdown.TotalInterest.Equal(decimal.NewFromInt(1600000)))
}

func TestInstallmentCalculateNegativeInterest(t *testing.T) {
	discounted := testMotor()
	discounted.InstallmentPlans = models.InstallmentPlanList{{
		DPPercent: decimal.NewFromInt(50),
		DPAmount:  decimal.NewFromInt(10000000),
		Installments: map[string]decimal.Decimal{
			"11_months": decimal.NewFromInt(800000),
		},
	}}
	svc := NewInstallmentService(&motorReaderStub{motor: discounted}, nil, nil)

	// 10M + 8.8M = 18.8M total against a 20M price: interest comes out
	// negative and is reported as-is.
	breakdown, err := svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(10000000),
		Tenor:    11,
	})
	require.NoError(t, err)
	assert.True(t, breakdown.TotalPayment.Equal(decimal.NewFromInt(18800000)))
	assert.True(t, breakdown.TotalInterest.Equal(decimal.NewFromInt(-1200000)))
}

func TestInstallmentCalculateDuplicateDPFirstPlanWins(t *testing.T) {
	motor := testMotor()
	motor.InstallmentPlans = models.InstallmentPlanList{
		{
			DPPercent: decimal.NewFromInt(20),
			DPAmount:  decimal.NewFromInt(4000000),
			Installments: map[string]decimal.Decimal{
				"11_months": decimal.NewFromInt(1600000),
			},
		},
		{
			DPPercent: decimal.NewFromInt(25),
			DPAmount:  decimal.NewFromInt(4000000),
			Installments: map[string]decimal.Decimal{
				"11_months": decimal.NewFromInt(1500000),
			},
		},
	}
	svc := NewInstallmentService(&motorReaderStub{motor: motor}, nil, nil)

	// Two plans quote the same down payment; the earlier row in the stored
	// plan list wins, never the cheaper one.
	breakdown, err := svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    11,
	})
	require.NoError(t, err)
	assert.True(t, breakdown.MonthlyInstallment.Equal(decimal.NewFromInt(1600000)))
	assert.True(t, breakdown.DPPercent.Equal(decimal.NewFromInt(20)))
}

func TestInstallmentCalculateExactDPMatch(t *testing.T) {
	svc := NewInstallmentService(&motorReaderStub{motor: testMotor()}, nil, nil)

	// Nearly right is still wrong: DP matching is exact, not nearest.
	_, err := svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(3999999),
		Tenor:    11,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPlanNotFound))

	// Trailing decimal zeros on an exact amount do match.
	dp, err := decimal.NewFromString("4000000.00")
	require.NoError(t, err)
	_, err = svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: dp,
		Tenor:    11,
	})
	assert.NoError(t, err)
}

func TestInstallmentCalculateTenorValidation(t *testing.T) {
	svc := NewInstallmentService(&motorReaderStub{motor: testMotor()}, nil, nil)

	// 12 is not in the allowed set, even though the DP would not match
	// either. Tenor validation runs first.
	_, err := svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(1),
		Tenor:    12,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTenor))

	// An omitted tenor decodes to zero and gets the same code, not a
	// generic validation failure.
	_, err = svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTenor))

	// 17 is an allowed tenor but the matched plan does not quote it.
	_, err = svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    17,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTenorNotAvailable))
}

func TestInstallmentCalculateMotorVisibility(t *testing.T) {
	svc := NewInstallmentService(&motorReaderStub{err: sql.ErrNoRows}, nil, nil)
	_, err := svc.Calculate(context.Background(), "missing", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    11,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	inactive := testMotor()
	inactive.IsActive = false
	svc = NewInstallmentService(&motorReaderStub{motor: inactive}, nil, nil)
	_, err = svc.Calculate(context.Background(), "motor-1", dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    11,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestInstallmentListOptions(t *testing.T) {
	svc := NewInstallmentService(&motorReaderStub{motor: testMotor()}, nil, nil)

	options, err := svc.ListOptions(context.Background(), "motor-1")
	require.NoError(t, err)
	require.Len(t, options, 3)

	// Plan order is preserved; missing tenors contribute no row.
	assert.Equal(t, 11, options[0].TenorMonths)
	assert.True(t, options[0].DPAmount.Equal(decimal.NewFromInt(4000000)))
	assert.Equal(t, 23, options[1].TenorMonths)
	assert.True(t, options[1].DPAmount.Equal(decimal.NewFromInt(4000000)))
	assert.Equal(t, 11, options[2].TenorMonths)
	assert.True(t, options[2].DPAmount.Equal(decimal.NewFromInt(6000000)))

	assert.True(t, options[1].TotalInstallment.Equal(decimal.NewFromInt(19550000)))
	assert.True(t, options[1].TotalPayment.Equal(decimal.NewFromInt(23550000)))
}
