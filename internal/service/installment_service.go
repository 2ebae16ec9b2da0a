package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type installmentMotorReader interface {
	FindByID(ctx context.Context, id string) (*models.Motor, error)
}

// InstallmentService computes financing breakdowns from a motor's embedded
// plan table. Plans are matched by exact down-payment amount, never by
// nearest value or tolerance.
type InstallmentService struct {
	motors    installmentMotorReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstallmentService constructs an InstallmentService.
func NewInstallmentService(motors installmentMotorReader, validate *validator.Validate, logger *zap.Logger) *InstallmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstallmentService{motors: motors, validator: validate, logger: logger}
}

// Calculate resolves the breakdown for a requested down payment and tenor.
// The tenor is validated before any plan lookup, so an out-of-set tenor is
// always INVALID_TENOR even if no plan matches the down payment either.
func (s *InstallmentService) Calculate(ctx context.Context, motorID string, req dto.CalculateInstallmentRequest) (*dto.InstallmentBreakdown, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calculation payload")
	}
	if !models.IsAllowedTenor(req.Tenor) {
		return nil, appErrors.ErrInvalidTenor
	}

	motor, err := s.findMotor(ctx, motorID)
	if err != nil {
		return nil, err
	}

	plan, err := matchPlan(motor.InstallmentPlans, req.DPAmount)
	if err != nil {
		return nil, err
	}

	monthly, ok := plan.Installments[models.TenorKey(req.Tenor)]
	if !ok {
		return nil, appErrors.ErrTenorNotAvailable
	}

	totalInstallment := monthly.Mul(decimal.NewFromInt(int64(req.Tenor)))
	totalPayment := plan.DPAmount.Add(totalInstallment)

	return &dto.InstallmentBreakdown{
		MotorID:            motor.ID,
		MotorName:          motor.Name,
		Price:              motor.Price,
		DPAmount:           plan.DPAmount,
		DPPercent:          plan.DPPercent,
		TenorMonths:        req.Tenor,
		MonthlyInstallment: monthly,
		TotalInstallment:   totalInstallment,
		TotalPayment:       totalPayment,
		TotalInterest:      totalPayment.Sub(motor.Price),
	}, nil
}

// ListOptions projects every plan row against every allowed tenor it quotes,
// preserving plan order. Plans missing a tenor simply contribute no row for
// it.
func (s *InstallmentService) ListOptions(ctx context.Context, motorID string) ([]dto.InstallmentOption, error) {
	motor, err := s.findMotor(ctx, motorID)
	if err != nil {
		return nil, err
	}

	options := make([]dto.InstallmentOption, 0, len(motor.InstallmentPlans)*len(models.AllowedTenors))
	for _, plan := range motor.InstallmentPlans {
		for _, tenor := range models.AllowedTenors {
			monthly, ok := plan.Installments[models.TenorKey(tenor)]
			if !ok {
				continue
			}
			totalInstallment := monthly.Mul(decimal.NewFromInt(int64(tenor)))
			options = append(options, dto.InstallmentOption{
				DPPercent:          plan.DPPercent,
				DPAmount:           plan.DPAmount,
				TenorMonths:        tenor,
				MonthlyInstallment: monthly,
				TotalInstallment:   totalInstallment,
				TotalPayment:       plan.DPAmount.Add(totalInstallment),
			})
		}
	}
	return options, nil
}

func (s *InstallmentService) findMotor(ctx context.Context, motorID string) (*models.Motor, error) {
	motor, err := s.motors.FindByID(ctx, motorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "motor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load motor")
	}
	if !motor.IsActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "motor not found")
	}
	return motor, nil
}

// matchPlan returns the first plan whose down payment equals the requested
// amount exactly. Comparison uses decimal equality, so "4000000" and
// "4000000.00" match.
func matchPlan(plans models.InstallmentPlanList, dpAmount decimal.Decimal) (*models.InstallmentPlan, error) {
	for i := range plans {
		if plans[i].DPAmount.Equal(dpAmount) {
			return &plans[i], nil
		}
	}
	return nil, appErrors.ErrPlanNotFound
}
