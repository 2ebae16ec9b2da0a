package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
	"github.com/tez-capital/cms-api/pkg/response"
)

type motorService interface {
	List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Motor, error)
	Create(ctx context.Context, req dto.CreateMotorRequest, actor *models.JWTClaims) (*models.Motor, error)
	Update(ctx context.Context, id string, req dto.UpdateMotorRequest, actor *models.JWTClaims) (*models.Motor, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

type installmentService interface {
	Calculate(ctx context.Context, motorID string, req dto.CalculateInstallmentRequest) (*dto.InstallmentBreakdown, error)
	ListOptions(ctx context.Context, motorID string) ([]dto.InstallmentOption, error)
}

// MotorHandler exposes motor catalog and installment endpoints.
type MotorHandler struct {
	motors       motorService
	installments installmentService
}

// NewMotorHandler builds a new handler.
func NewMotorHandler(motors motorService, installments installmentService) *MotorHandler {
	return &MotorHandler{motors: motors, installments: installments}
}

func motorFilterFromQuery(c *gin.Context) models.MotorFilter {
	var filter models.MotorFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Area = c.Query("area")
	filter.Period = c.Query("period")
	if active := c.Query("active"); active != "" {
		if active == "true" {
			v := true
			filter.Active = &v
		} else if active == "false" {
			v := false
			filter.Active = &v
		}
	}
	filter.Page, filter.PageSize = pageFromQuery(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// PublicList godoc
// @Summary List financeable motors
// @Tags Motors
// @Produce json
// @Param search query string false "Search by name"
// @Param area query string false "Filter by area"
// @Param period query string false "Filter by price period"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /motors [get]
func (h *MotorHandler) PublicList(c *gin.Context) {
	filter := motorFilterFromQuery(c)
	active := true
	filter.Active = &active

	motors, pagination, err := h.motors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "motors retrieved", motors, pagination)
}

// List godoc
// @Summary List motors for administration
// @Tags Motors
// @Produce json
// @Param search query string false "Search by name"
// @Param area query string false "Filter by area"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/motors [get]
func (h *MotorHandler) List(c *gin.Context) {
	motors, pagination, err := h.motors.List(c.Request.Context(), motorFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "motors retrieved", motors, pagination)
}

// Get godoc
// @Summary Get motor by id
// @Tags Motors
// @Produce json
// @Param id path string true "Motor ID"
// @Success 200 {object} response.Envelope
// @Router /admin/motors/{id} [get]
func (h *MotorHandler) Get(c *gin.Context) {
	motor, err := h.motors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "motor retrieved", motor)
}

// Create godoc
// @Summary Create a motor with its installment plans
// @Tags Motors
// @Accept json
// @Produce json
// @Param payload body dto.CreateMotorRequest true "Motor payload"
// @Success 201 {object} response.Envelope
// @Router /admin/motors [post]
func (h *MotorHandler) Create(c *gin.Context) {
	var req dto.CreateMotorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid motor payload"))
		return
	}
	motor, err := h.motors.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "motor created", motor)
}

// Update godoc
// @Summary Update a motor
// @Tags Motors
// @Accept json
// @Produce json
// @Param id path string true "Motor ID"
// @Param payload body dto.UpdateMotorRequest true "Motor payload"
// @Success 200 {object} response.Envelope
// @Router /admin/motors/{id} [put]
func (h *MotorHandler) Update(c *gin.Context) {
	var req dto.UpdateMotorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid motor payload"))
		return
	}
	motor, err := h.motors.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "motor updated", motor)
}

// Delete godoc
// @Summary Delete a motor
// @Tags Motors
// @Produce json
// @Param id path string true "Motor ID"
// @Success 204 {object} response.Envelope
// @Router /admin/motors/{id} [delete]
func (h *MotorHandler) Delete(c *gin.Context) {
	if err := h.motors.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Calculate godoc
// @Summary Calculate an installment breakdown
// @Description Computes the financing breakdown for a motor, down payment and tenor
// @Tags Motors
// @Accept json
// @Produce json
// @Param id path string true "Motor ID"
// @Param payload body dto.CalculateInstallmentRequest true "Calculation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /motors/{id}/calculate [post]
func (h *MotorHandler) Calculate(c *gin.Context) {
	var req dto.CalculateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calculation payload"))
		return
	}
	breakdown, err := h.installments.Calculate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "installment calculated", breakdown)
}

// InstallmentOptions godoc
// @Summary List all plan and tenor combinations for a motor
// @Tags Motors
// @Produce json
// @Param id path string true "Motor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /motors/{id}/installment-options [get]
func (h *MotorHandler) InstallmentOptions(c *gin.Context) {
	options, err := h.installments.ListOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "installment options", options)
}
