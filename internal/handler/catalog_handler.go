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

type catalogService interface {
	ListServiceItems(ctx context.Context) ([]models.ServiceItem, error)
	PublicServiceItems(ctx context.Context, lang string) ([]dto.PublicServiceItem, error)
	CreateServiceItem(ctx context.Context, req dto.UpsertServiceItemRequest, actor *models.JWTClaims) (*models.ServiceItem, error)
	UpdateServiceItem(ctx context.Context, id string, req dto.UpsertServiceItemRequest, actor *models.JWTClaims) (*models.ServiceItem, error)
	DeleteServiceItem(ctx context.Context, id string, actor *models.JWTClaims) error

	ListPartners(ctx context.Context) ([]models.Partner, error)
	PublicPartners(ctx context.Context) ([]dto.PublicPartnerItem, error)
	CreatePartner(ctx context.Context, req dto.UpsertPartnerRequest, actor *models.JWTClaims) (*models.Partner, error)
	UpdatePartner(ctx context.Context, id string, req dto.UpsertPartnerRequest, actor *models.JWTClaims) (*models.Partner, error)
	DeletePartner(ctx context.Context, id string, actor *models.JWTClaims) error

	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
	PublicTeamMembers(ctx context.Context, lang string) ([]dto.PublicTeamMember, error)
	CreateTeamMember(ctx context.Context, req dto.UpsertTeamMemberRequest, actor *models.JWTClaims) (*models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, id string, req dto.UpsertTeamMemberRequest, actor *models.JWTClaims) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string, actor *models.JWTClaims) error
}

// CatalogHandler exposes services, partners and team endpoints. The three
// resources share the same ordered-list shape.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// PublicServices godoc
// @Summary List active financing services
// @Tags Catalog
// @Produce json
// @Param lang query string false "Content language (id or en)"
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) PublicServices(c *gin.Context) {
	items, err := h.service.PublicServiceItems(c.Request.Context(), langFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "services retrieved", items)
}

// ListServices godoc
// @Summary List financing services for administration
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	items, err := h.service.ListServiceItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "services retrieved", items)
}

// CreateService godoc
// @Summary Create a financing service entry
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.UpsertServiceItemRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Router /admin/services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.UpsertServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid service payload"))
		return
	}
	item, err := h.service.CreateServiceItem(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "service created", item)
}

// UpdateService godoc
// @Summary Update a financing service entry
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body dto.UpsertServiceItemRequest true "Service payload"
// @Success 200 {object} response.Envelope
// @Router /admin/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req dto.UpsertServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid service payload"))
		return
	}
	item, err := h.service.UpdateServiceItem(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "service updated", item)
}

// DeleteService godoc
// @Summary Delete a financing service entry
// @Tags Catalog
// @Produce json
// @Param id path string true "Service ID"
// @Success 204 {object} response.Envelope
// @Router /admin/services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.service.DeleteServiceItem(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PublicPartners godoc
// @Summary List active partners
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /partners [get]
func (h *CatalogHandler) PublicPartners(c *gin.Context) {
	items, err := h.service.PublicPartners(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "partners retrieved", items)
}

// ListPartners godoc
// @Summary List partners for administration
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/partners [get]
func (h *CatalogHandler) ListPartners(c *gin.Context) {
	items, err := h.service.ListPartners(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "partners retrieved", items)
}

// CreatePartner godoc
// @Summary Create a partner entry
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.UpsertPartnerRequest true "Partner payload"
// @Success 201 {object} response.Envelope
// @Router /admin/partners [post]
func (h *CatalogHandler) CreatePartner(c *gin.Context) {
	var req dto.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid partner payload"))
		return
	}
	item, err := h.service.CreatePartner(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "partner created", item)
}

// UpdatePartner godoc
// @Summary Update a partner entry
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param payload body dto.UpsertPartnerRequest true "Partner payload"
// @Success 200 {object} response.Envelope
// @Router /admin/partners/{id} [put]
func (h *CatalogHandler) UpdatePartner(c *gin.Context) {
	var req dto.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid partner payload"))
		return
	}
	item, err := h.service.UpdatePartner(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "partner updated", item)
}

// DeletePartner godoc
// @Summary Delete a partner entry
// @Tags Catalog
// @Produce json
// @Param id path string true "Partner ID"
// @Success 204 {object} response.Envelope
// @Router /admin/partners/{id} [delete]
func (h *CatalogHandler) DeletePartner(c *gin.Context) {
	if err := h.service.DeletePartner(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PublicTeam godoc
// @Summary List active team members
// @Tags Catalog
// @Produce json
// @Param lang query string false "Content language (id or en)"
// @Success 200 {object} response.Envelope
// @Router /team [get]
func (h *CatalogHandler) PublicTeam(c *gin.Context) {
	items, err := h.service.PublicTeamMembers(c.Request.Context(), langFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team retrieved", items)
}

// ListTeam godoc
// @Summary List team members for administration
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/team [get]
func (h *CatalogHandler) ListTeam(c *gin.Context) {
	items, err := h.service.ListTeamMembers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team retrieved", items)
}

// CreateTeamMember godoc
// @Summary Create a team member profile
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.UpsertTeamMemberRequest true "Team member payload"
// @Success 201 {object} response.Envelope
// @Router /admin/team [post]
func (h *CatalogHandler) CreateTeamMember(c *gin.Context) {
	var req dto.UpsertTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team member payload"))
		return
	}
	item, err := h.service.CreateTeamMember(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "team member created", item)
}

// UpdateTeamMember godoc
// @Summary Update a team member profile
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Team member ID"
// @Param payload body dto.UpsertTeamMemberRequest true "Team member payload"
// @Success 200 {object} response.Envelope
// @Router /admin/team/{id} [put]
func (h *CatalogHandler) UpdateTeamMember(c *gin.Context) {
	var req dto.UpsertTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team member payload"))
		return
	}
	item, err := h.service.UpdateTeamMember(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team member updated", item)
}

// DeleteTeamMember godoc
// @Summary Delete a team member profile
// @Tags Catalog
// @Produce json
// @Param id path string true "Team member ID"
// @Success 204 {object} response.Envelope
// @Router /admin/team/{id} [delete]
func (h *CatalogHandler) DeleteTeamMember(c *gin.Context) {
	if err := h.service.DeleteTeamMember(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
