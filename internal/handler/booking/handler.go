package booking

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/booking"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
)

type Handler struct {
	service *booking.Service
	logger  *logger.Logger
}

func NewHandler(service *booking.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings/:id", h.GetBooking)
	r.POST("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterProtectedRoutes mounts the staff-only booking operations.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/bookings", h.ListBookings)
	r.PATCH("/bookings/:id/status", h.UpdateStatus)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) ListBookings(c *gin.Context) {
	filters := &model.BookingFilters{}
	if v := c.Query("offering_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid offering_id", err))
			return
		}
		filters.OfferingID = id
	}
	if v := c.Query("status"); v != "" {
		filters.Status = model.BookingStatus(v)
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination", err))
		return
	}

	bookings, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	// body is optional
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cancelled)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking ID", err))
		return
	}

	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		httputil.RespondWithError(c, apperrors.BadRequest("status is required", err))
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("booking", err))
	case errors.Is(err, booking.ErrOfferingNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("offering", err))
	case errors.Is(err, booking.ErrCustomerNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("customer", err))
	case errors.Is(err, booking.ErrOfferingInactive):
		httputil.RespondWithError(c, apperrors.NewUnprocessable("offering is not bookable", err))
	case errors.Is(err, booking.ErrSlotTaken):
		httputil.RespondWithError(c, apperrors.Conflict("slot is already booked", err))
	case errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrNotCancellable),
		errors.Is(err, booking.ErrBadTransition):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	default:
		h.logger.Error(err, "booking operation failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
