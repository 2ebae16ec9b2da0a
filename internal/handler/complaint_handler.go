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

type complaintService interface {
	Submit(ctx context.Context, req dto.CreateComplaintRequest) (*models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateComplaintStatusRequest, actor *models.JWTClaims) (*models.Complaint, error)
	Summary(ctx context.Context) (map[models.ComplaintStatus]int, error)
}

// ComplaintHandler exposes complaint intake and review endpoints.
type ComplaintHandler struct {
	service complaintService
}

// NewComplaintHandler builds a new handler.
func NewComplaintHandler(service complaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Submit godoc
// @Summary Submit a complaint
// @Description Public intake form for customer complaints
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body dto.CreateComplaintRequest true "Complaint payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /complaints [post]
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var req dto.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}
	complaint, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "complaint submitted", complaint)
}

// List godoc
// @Summary List complaints for review
// @Tags Complaints
// @Produce json
// @Param status query string false "Filter by workflow status"
// @Param category query string false "Filter by category"
// @Param search query string false "Search by reporter name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	var filter models.ComplaintFilter
	filter.Status = models.ComplaintStatus(c.Query("status"))
	filter.Category = c.Query("category")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.PageSize = pageFromQuery(c)

	complaints, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "complaints retrieved", complaints, pagination)
}

// Get godoc
// @Summary Get complaint by id
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Router /admin/complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "complaint retrieved", complaint)
}

// UpdateStatus godoc
// @Summary Move a complaint through its workflow
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body dto.UpdateComplaintStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/complaints/{id}/status [put]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	complaint, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "complaint updated", complaint)
}

// Summary godoc
// @Summary Complaint counts by workflow status
// @Tags Complaints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/complaints/summary [get]
func (h *ComplaintHandler) Summary(c *gin.Context) {
	counts, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "complaint summary", counts)
}
