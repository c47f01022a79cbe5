package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/auth"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
)

type Handler struct {
	service *auth.Service
	logger  *logger.Logger
}

func NewHandler(service *auth.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	staff, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithCreated(c, staff)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		httputil.RespondWithError(c, apperrors.Conflict("email is already registered", err))
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrStaffInactive):
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
	default:
		h.logger.Error(err, "auth operation failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
