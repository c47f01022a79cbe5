package offering

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/offering"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
)

type Handler struct {
	service *offering.Service
	logger  *logger.Logger
}

func NewHandler(service *offering.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the public catalog endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/offerings", h.ListOfferings)
	r.GET("/offerings/:id", h.GetOffering)
}

// RegisterProtectedRoutes mounts the staff-only management endpoints.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/offerings", h.CreateOffering)
	r.PUT("/offerings/:id", h.UpdateOffering)
	r.DELETE("/offerings/:id", h.DeleteOffering)
}

// ListOfferings lists the public catalog. Only active offerings are shown
// unless the caller asks otherwise.
func (h *Handler) ListOfferings(c *gin.Context) {
	active := true
	filters := &model.OfferingFilters{Active: &active}
	if c.Query("include_inactive") == "true" {
		filters.Active = nil
	}
	if v := c.Query("staff_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff_id", err))
			return
		}
		filters.StaffID = id
	}

	offerings, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, offerings)
}

func (h *Handler) GetOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid offering ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) CreateOffering(c *gin.Context) {
	var req model.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.StaffID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) UpdateOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid offering ID", err))
		return
	}

	var req model.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.StaffID(c), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeleteOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid offering ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.StaffID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, offering.ErrOfferingNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("offering", err))
	case errors.Is(err, offering.ErrStaffNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("staff member", err))
	default:
		h.logger.Error(err, "offering operation failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
