package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
	"github.com/tez-capital/cms-api/pkg/response"
)

type reportService interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.Pagination, error)
	PublicList(ctx context.Context, lang string, filter models.ReportFilter) ([]dto.PublicReportItem, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	GetPublic(ctx context.Context, id string) (*models.Report, error)
	Publish(ctx context.Context, req dto.PublishReportRequest, actor *models.JWTClaims) (*models.Report, error)
	Update(ctx context.Context, id string, req dto.PublishReportRequest, actor *models.JWTClaims) (*models.Report, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

type reportFileOpener interface {
	Open(relPath string) (*os.File, error)
}

// ReportHandler exposes published report endpoints.
type ReportHandler struct {
	service reportService
	files   reportFileOpener
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService, files reportFileOpener) *ReportHandler {
	return &ReportHandler{service: service, files: files}
}

func reportFilterFromQuery(c *gin.Context) models.ReportFilter {
	var filter models.ReportFilter
	filter.Category = models.ReportCategory(c.Query("category"))
	filter.Period = c.Query("period")
	filter.Page, filter.PageSize = pageFromQuery(c)
	return filter
}

// PublicList godoc
// @Summary List public reports
// @Tags Reports
// @Produce json
// @Param category query string false "Filter by category (annual, financial, ojk)"
// @Param period query string false "Filter by reporting period"
// @Param lang query string false "Content language (id or en)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) PublicList(c *gin.Context) {
	items, pagination, err := h.service.PublicList(c.Request.Context(), langFromQuery(c), reportFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "reports retrieved", items, pagination)
}

// Download godoc
// @Summary Download a public report PDF
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Report ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	report, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.files.Open(report.File)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report file not found"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read report file"))
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", report.Category, report.Period)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}

// List godoc
// @Summary List reports for administration
// @Tags Reports
// @Produce json
// @Param category query string false "Filter by category"
// @Param period query string false "Filter by period"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports, pagination, err := h.service.List(c.Request.Context(), reportFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "reports retrieved", reports, pagination)
}

// Get godoc
// @Summary Get report by id
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "report retrieved", report)
}

// Publish godoc
// @Summary Register a stored PDF as a published report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.PublishReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /admin/reports [post]
func (h *ReportHandler) Publish(c *gin.Context) {
	var req dto.PublishReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	report, err := h.service.Publish(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "report published", report)
}

// Update godoc
// @Summary Update a published report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.PublishReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	var req dto.PublishReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	report, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "report updated", report)
}

// Delete godoc
// @Summary Delete a report and its PDF
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 204 {object} response.Envelope
// @Router /admin/reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
