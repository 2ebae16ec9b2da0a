package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
	"github.com/tez-capital/cms-api/pkg/response"
)

type configService interface {
	List(ctx context.Context) ([]dto.ConfigEntry, error)
	ListByGroup(ctx context.Context, group models.ConfigGroup) ([]dto.ConfigEntry, error)
	ListGrouped(ctx context.Context) (map[string]map[string]dto.ConfigEntry, error)
	GetPublic(ctx context.Context) (map[string]interface{}, error)
	Set(ctx context.Context, req dto.SetConfigRequest, actor *models.JWTClaims) (*dto.ConfigEntry, error)
	BulkSet(ctx context.Context, req dto.BulkSetConfigRequest, actor *models.JWTClaims) ([]dto.ConfigEntry, error)
	Delete(ctx context.Context, key string, actor *models.JWTClaims) error
}

// ConfigHandler exposes site configuration endpoints.
type ConfigHandler struct {
	service configService
}

// NewConfigHandler builds a new handler.
func NewConfigHandler(service configService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

// Public godoc
// @Summary Public site configuration
// @Description Returns the decoded map of public configuration values
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /config/public [get]
func (h *ConfigHandler) Public(c *gin.Context) {
	values, err := h.service.GetPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "public configuration", values)
}

// List godoc
// @Summary List configuration entries
// @Tags Configuration
// @Produce json
// @Param group query string false "Filter by configuration group"
// @Success 200 {object} response.Envelope
// @Router /admin/config [get]
func (h *ConfigHandler) List(c *gin.Context) {
	var (
		items []dto.ConfigEntry
		err   error
	)
	if group := c.Query("group"); group != "" {
		items, err = h.service.ListByGroup(c.Request.Context(), models.ConfigGroup(group))
	} else {
		items, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuration entries", items)
}

// Grouped godoc
// @Summary Full configuration dump partitioned by group
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/config/grouped [get]
func (h *ConfigHandler) Grouped(c *gin.Context) {
	grouped, err := h.service.ListGrouped(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuration entries", grouped)
}

// Set godoc
// @Summary Upsert a configuration entry
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.SetConfigRequest true "Configuration payload"
// @Success 200 {object} response.Envelope
// @Router /admin/config [put]
func (h *ConfigHandler) Set(c *gin.Context) {
	var req dto.SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	entry, err := h.service.Set(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuration updated", entry)
}

// BulkSet godoc
// @Summary Upsert multiple configuration entries
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.BulkSetConfigRequest true "Bulk configuration payload"
// @Success 200 {object} response.Envelope
// @Router /admin/config/bulk [put]
func (h *ConfigHandler) BulkSet(c *gin.Context) {
	var req dto.BulkSetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	items, err := h.service.BulkSet(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "configuration updated", items)
}

// Delete godoc
// @Summary Delete a configuration entry
// @Tags Configuration
// @Produce json
// @Param key path string true "Configuration key"
// @Success 204 {object} response.Envelope
// @Router /admin/config/{key} [delete]
func (h *ConfigHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
