package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type motorServiceMock struct {
	motors []models.Motor
	filter models.MotorFilter
}

func (m *motorServiceMock) List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, *models.Pagination, error) {
	m.filter = filter
	return m.motors, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.motors)}, nil
}

func (m *motorServiceMock) Get(ctx context.Context, id string) (*models.Motor, error) {
	for i := range m.motors {
		if m.motors[i].ID == id {
			return &m.motors[i], nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (m *motorServiceMock) Create(ctx context.Context, req dto.CreateMotorRequest, actor *models.JWTClaims) (*models.Motor, error) {
	return &models.Motor{ID: "motor-1", Name: req.Name}, nil
}

func (m *motorServiceMock) Update(ctx context.Context, id string, req dto.UpdateMotorRequest, actor *models.JWTClaims) (*models.Motor, error) {
	return &models.Motor{ID: id, Name: req.Name}, nil
}

func (m *motorServiceMock) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	return nil
}

type installmentServiceMock struct {
	breakdown *dto.InstallmentBreakdown
	options   []dto.InstallmentOption
	err       error
}

func (m *installmentServiceMock) Calculate(ctx context.Context, motorID string, req dto.CalculateInstallmentRequest) (*dto.InstallmentBreakdown, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.breakdown, nil
}

func (m *installmentServiceMock) ListOptions(ctx context.Context, motorID string) ([]dto.InstallmentOption, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.options, nil
}

func TestMotorHandlerPublicListForcesActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	motors := &motorServiceMock{}
	handler := NewMotorHandler(motors, &installmentServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/motors?active=false&area=Jakarta", nil)
	c.Request = req

	handler.PublicList(c)
	require.Equal(t, http.StatusOK, w.Code)

	// Inactive listings stay hidden even when the query asks for them.
	require.NotNil(t, motors.filter.Active)
	assert.True(t, *motors.filter.Active)
	assert.Equal(t, "Jakarta", motors.filter.Area)
}

func TestMotorHandlerCalculate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	installments := &installmentServiceMock{breakdown: &dto.InstallmentBreakdown{
		MotorID:            "motor-1",
		TenorMonths:        11,
		MonthlyInstallment: decimal.NewFromInt(1600000),
		TotalPayment:       decimal.NewFromInt(21600000),
	}}
	handler := NewMotorHandler(&motorServiceMock{}, installments)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(4000000),
		Tenor:    11,
	})
	req, _ := http.NewRequest(http.MethodPost, "/motors/motor-1/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "motor-1"}}

	handler.Calculate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool                     `json:"success"`
		Data    dto.InstallmentBreakdown `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 11, envelope.Data.TenorMonths)
	assert.True(t, envelope.Data.TotalPayment.Equal(decimal.NewFromInt(21600000)))
}

func TestMotorHandlerCalculateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMotorHandler(&motorServiceMock{}, &installmentServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/motors/motor-1/calculate", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "motor-1"}}

	handler.Calculate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMotorHandlerCalculatePlanNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMotorHandler(&motorServiceMock{}, &installmentServiceMock{err: appErrors.ErrPlanNotFound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CalculateInstallmentRequest{
		DPAmount: decimal.NewFromInt(3999999),
		Tenor:    11,
	})
	req, _ := http.NewRequest(http.MethodPost, "/motors/motor-1/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "motor-1"}}

	handler.Calculate(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
