package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AllowedTenors is the fixed set of financing terms (in months) a plan may
// quote. Requests outside this set are rejected before any plan lookup.
var AllowedTenors = []int{11, 17, 23, 29, 35}

// TenorKey formats a tenor into the map key used inside a plan's
// installment table, e.g. 11 -> "11_months".
func TenorKey(months int) string {
	return fmt.Sprintf("%d_months", months)
}

// IsAllowedTenor reports whether the tenor belongs to the fixed set.
func IsAllowedTenor(months int) bool {
	for _, t := range AllowedTenors {
		if t == months {
			return true
		}
	}
	return false
}

// InstallmentPlan is one row of a motor's financing table, keyed by an exact
// down-payment amount. DPPercent is informational only.
type InstallmentPlan struct {
	DPPercent    decimal.Decimal            `json:"dp_percent"`
	DPAmount     decimal.Decimal            `json:"dp_amount"`
	Installments map[string]decimal.Decimal `json:"installments"`
}

// InstallmentPlanList is an ordered plan sequence persisted as JSONB.
// Order is semantically significant: the first plan matching a requested
// down payment wins when duplicates exist.
type InstallmentPlanList []InstallmentPlan

// Value marshals the plan list to JSON for persistence.
func (l InstallmentPlanList) Value() (driver.Value, error) {
	if l == nil {
		l = InstallmentPlanList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal installment plans: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the plan list.
func (l *InstallmentPlanList) Scan(value interface{}) error {
	if value == nil {
		*l = InstallmentPlanList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for InstallmentPlanList", value)
	}
	if len(data) == 0 {
		*l = InstallmentPlanList{}
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal installment plans: %w", err)
	}
	return nil
}

// Motor represents a financeable vehicle with its embedded pricing table.
type Motor struct {
	ID               string              `db:"id" json:"id"`
	Name             string              `db:"name" json:"name"`
	Price            decimal.Decimal     `db:"price" json:"price"`
	Area             string              `db:"area" json:"area"`
	Period           string              `db:"period" json:"period"`
	Image            *string             `db:"image" json:"image,omitempty"`
	InstallmentPlans InstallmentPlanList `db:"installment_plans" json:"installment_plans"`
	IsActive         bool                `db:"is_active" json:"is_active"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

// MotorFilter captures listing criteria. Area and Period are categorical
// attributes used for filtering only.
type MotorFilter struct {
	Area      string
	Period    string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
