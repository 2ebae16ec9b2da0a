package dto

import "github.com/shopspring/decimal"

// InstallmentPlanPayload is one plan row in create/update requests.
type InstallmentPlanPayload struct {
	DPPercent    decimal.Decimal            `json:"dp_percent"`
	DPAmount     decimal.Decimal            `json:"dp_amount" validate:"required"`
	Installments map[string]decimal.Decimal `json:"installments" validate:"required,min=1"`
}

// CreateMotorRequest creates a financeable vehicle with its plan table.
type CreateMotorRequest struct {
	Name   string                   `json:"name" validate:"required"`
	Price  decimal.Decimal          `json:"price" validate:"required"`
	Area   string                   `json:"area" validate:"required"`
	Period string                   `json:"period" validate:"required"`
	Image  string                   `json:"image"`
	Plans  []InstallmentPlanPayload `json:"installment_plans" validate:"required,min=1,dive"`
}

// UpdateMotorRequest replaces a motor's attributes and plan table.
type UpdateMotorRequest struct {
	Name     string                   `json:"name" validate:"required"`
	Price    decimal.Decimal          `json:"price" validate:"required"`
	Area     string                   `json:"area" validate:"required"`
	Period   string                   `json:"period" validate:"required"`
	Image    string                   `json:"image"`
	IsActive *bool                    `json:"is_active"`
	Plans    []InstallmentPlanPayload `json:"installment_plans" validate:"required,min=1,dive"`
}

// CalculateInstallmentRequest asks for a financing breakdown. Tenor carries
// no struct tag: the allowed-set check owns tenor validation so that zero and
// out-of-set values surface under the same error code.
type CalculateInstallmentRequest struct {
	DPAmount decimal.Decimal `json:"dp_amount" validate:"required"`
	Tenor    int             `json:"tenor_months"`
}

// InstallmentBreakdown is the computed financing result.
type InstallmentBreakdown struct {
	MotorID            string          `json:"motor_id"`
	MotorName          string          `json:"motor_name"`
	Price              decimal.Decimal `json:"price"`
	DPAmount           decimal.Decimal `json:"dp_amount"`
	DPPercent          decimal.Decimal `json:"dp_percent"`
	TenorMonths        int             `json:"tenor_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalInstallment   decimal.Decimal `json:"total_installment"`
	TotalPayment       decimal.Decimal `json:"total_payment"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
}

// InstallmentOption is one row of the plan × tenor projection.
type InstallmentOption struct {
	DPPercent          decimal.Decimal `json:"dp_percent"`
	DPAmount           decimal.Decimal `json:"dp_amount"`
	TenorMonths        int             `json:"tenor_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalInstallment   decimal.Decimal `json:"total_installment"`
	TotalPayment       decimal.Decimal `json:"total_payment"`
}
