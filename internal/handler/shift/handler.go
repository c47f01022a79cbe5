package shift

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/shift"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
)

type Handler struct {
	service *shift.Service
	logger  *logger.Logger
}

func NewHandler(service *shift.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.PUT("/shifts", h.UpsertShift)
	r.GET("/staff/:id/shifts", h.ListShifts)
	r.DELETE("/shifts/:id", h.DeleteShift)
}

func (h *Handler) UpsertShift(c *gin.Context) {
	var req model.UpsertShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	upserted, err := h.service.Upsert(c.Request.Context(), middleware.StaffID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, upserted)
}

func (h *Handler) ListShifts(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	shifts, err := h.service.ListForStaff(c.Request.Context(), staffID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, shifts)
}

func (h *Handler) DeleteShift(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid shift ID", err))
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
	case errors.Is(err, shift.ErrShiftNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("shift", err))
	case errors.Is(err, shift.ErrStaffNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("staff member", err))
	case errors.Is(err, shift.ErrInvalidWindow),
		errors.Is(err, shift.ErrInvalidClock),
		errors.Is(err, shift.ErrInvalidWeekday):
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
	default:
		h.logger.Error(err, "shift operation failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
