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

type careerService interface {
	List(ctx context.Context, filter models.CareerFilter) ([]models.Career, *models.Pagination, error)
	PublicList(ctx context.Context, lang string, page, pageSize int) ([]dto.PublicCareerItem, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Career, error)
	Create(ctx context.Context, req dto.UpsertCareerRequest, actor *models.JWTClaims) (*models.Career, error)
	Update(ctx context.Context, id string, req dto.UpsertCareerRequest, actor *models.JWTClaims) (*models.Career, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// CareerHandler exposes job vacancy endpoints.
type CareerHandler struct {
	service careerService
}

// NewCareerHandler builds a new handler.
func NewCareerHandler(service careerService) *CareerHandler {
	return &CareerHandler{service: service}
}

// PublicList godoc
// @Summary List open vacancies
// @Tags Careers
// @Produce json
// @Param lang query string false "Content language (id or en)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /careers [get]
func (h *CareerHandler) PublicList(c *gin.Context) {
	page, size := pageFromQuery(c)
	items, pagination, err := h.service.PublicList(c.Request.Context(), langFromQuery(c), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "vacancies retrieved", items, pagination)
}

// List godoc
// @Summary List vacancies for administration
// @Tags Careers
// @Produce json
// @Param status query string false "Filter by status (OPEN or CLOSED)"
// @Param search query string false "Search in title and location"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/careers [get]
func (h *CareerHandler) List(c *gin.Context) {
	var filter models.CareerFilter
	filter.Status = models.CareerStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.PageSize = pageFromQuery(c)

	careers, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "vacancies retrieved", careers, pagination)
}

// Get godoc
// @Summary Get vacancy by id
// @Tags Careers
// @Produce json
// @Param id path string true "Vacancy ID"
// @Success 200 {object} response.Envelope
// @Router /admin/careers/{id} [get]
func (h *CareerHandler) Get(c *gin.Context) {
	career, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "vacancy retrieved", career)
}

// Create godoc
// @Summary Create a vacancy
// @Tags Careers
// @Accept json
// @Produce json
// @Param payload body dto.UpsertCareerRequest true "Vacancy payload"
// @Success 201 {object} response.Envelope
// @Router /admin/careers [post]
func (h *CareerHandler) Create(c *gin.Context) {
	var req dto.UpsertCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacancy payload"))
		return
	}
	career, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "vacancy created", career)
}

// Update godoc
// @Summary Update a vacancy
// @Tags Careers
// @Accept json
// @Produce json
// @Param id path string true "Vacancy ID"
// @Param payload body dto.UpsertCareerRequest true "Vacancy payload"
// @Success 200 {object} response.Envelope
// @Router /admin/careers/{id} [put]
func (h *CareerHandler) Update(c *gin.Context) {
	var req dto.UpsertCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacancy payload"))
		return
	}
	career, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "vacancy updated", career)
}

// Delete godoc
// @Summary Delete a vacancy
// @Tags Careers
// @Produce json
// @Param id path string true "Vacancy ID"
// @Success 204 {object} response.Envelope
// @Router /admin/careers/{id} [delete]
func (h *CareerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
