package customer

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/customer"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
)

type Handler struct {
	service *customer.Service
	logger  *logger.Logger
}

func NewHandler(service *customer.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/customers", h.CreateCustomer)
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/customers/:id", h.GetCustomer)
}

// CreateCustomer registers a customer before booking. Posting an email that is
// already known returns the existing record rather than a conflict.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error(err, "customer create failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid customer ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, customer.ErrCustomerNotFound) {
		httputil.RespondWithError(c, apperrors.NotFound("customer", err))
		return
	}
	if err != nil {
		h.logger.Error(err, "customer lookup failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, found)
}
