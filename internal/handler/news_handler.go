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

type newsService interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, *models.Pagination, error)
	PublicList(ctx context.Context, lang string, page, pageSize int) ([]dto.PublicNewsItem, *models.Pagination, error)
	PublicGetBySlug(ctx context.Context, slug, lang string) (*dto.PublicNewsItem, error)
	Get(ctx context.Context, id string) (*models.NewsPost, error)
	Create(ctx context.Context, req dto.CreateNewsRequest, actor *models.JWTClaims) (*models.NewsPost, error)
	Update(ctx context.Context, id string, req dto.UpdateNewsRequest, actor *models.JWTClaims) (*models.NewsPost, error)
	BulkSetStatus(ctx context.Context, req dto.BulkStatusRequest, actor *models.JWTClaims) (int64, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// NewsHandler exposes news endpoints.
type NewsHandler struct {
	service newsService
}

// NewNewsHandler builds a new handler.
func NewNewsHandler(service newsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// PublicList godoc
// @Summary List published news
// @Tags News
// @Produce json
// @Param lang query string false "Content language (id or en)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *NewsHandler) PublicList(c *gin.Context) {
	page, size := pageFromQuery(c)
	items, pagination, err := h.service.PublicList(c.Request.Context(), langFromQuery(c), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "news retrieved", items, pagination)
}

// PublicGet godoc
// @Summary Get a published news post by slug
// @Tags News
// @Produce json
// @Param slug path string true "News slug"
// @Param lang query string false "Content language (id or en)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /news/{slug} [get]
func (h *NewsHandler) PublicGet(c *gin.Context) {
	item, err := h.service.PublicGetBySlug(c.Request.Context(), c.Param("slug"), langFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news retrieved", item)
}

// List godoc
// @Summary List news posts for administration
// @Tags News
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search in titles"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/news [get]
func (h *NewsHandler) List(c *gin.Context) {
	var filter models.NewsFilter
	filter.Status = models.ContentStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.PageSize = pageFromQuery(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	posts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "news retrieved", posts, pagination)
}

// Get godoc
// @Summary Get news post by id
// @Tags News
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} response.Envelope
// @Router /admin/news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news retrieved", post)
}

// Create godoc
// @Summary Create a news post
// @Tags News
// @Accept json
// @Produce json
// @Param payload body dto.CreateNewsRequest true "News payload"
// @Success 201 {object} response.Envelope
// @Router /admin/news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	post, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "news created", post)
}

// Update godoc
// @Summary Update a news post
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "News ID"
// @Param payload body dto.UpdateNewsRequest true "News payload"
// @Success 200 {object} response.Envelope
// @Router /admin/news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	post, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news updated", post)
}

// BulkStatus godoc
// @Summary Transition multiple news posts to a new status
// @Tags News
// @Accept json
// @Produce json
// @Param payload body dto.BulkStatusRequest true "Bulk status payload"
// @Success 200 {object} response.Envelope
// @Router /admin/news/bulk-status [put]
func (h *NewsHandler) BulkStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk status payload"))
		return
	}
	affected, err := h.service.BulkSetStatus(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "status updated", gin.H{"affected": affected})
}

// Delete godoc
// @Summary Delete a news post
// @Tags News
// @Produce json
// @Param id path string true "News ID"
// @Success 204 {object} response.Envelope
// @Router /admin/news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
