package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookline/booking-api/internal/config"
	"github.com/bookline/booking-api/internal/handler"
	authhandler "github.com/bookline/booking-api/internal/handler/auth"
	availabilityhandler "github.com/bookline/booking-api/internal/handler/availability"
	bookinghandler "github.com/bookline/booking-api/internal/handler/booking"
	customerhandler "github.com/bookline/booking-api/internal/handler/customer"
	offeringhandler "github.com/bookline/booking-api/internal/handler/offering"
	shifthandler "github.com/bookline/booking-api/internal/handler/shift"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
	"github.com/bookline/booking-api/pkg/validator"
)

type Handlers struct {
	Availability *availabilityhandler.Handler
	Booking      *bookinghandler.Handler
	Offering     *offeringhandler.Handler
	Shift        *shifthandler.Handler
	Auth         *authhandler.Handler
	Customer     *customerhandler.Handler
}

// New assembles the gin engine: ambient middleware, public endpoints for
// customers, and a JWT-protected group for staff.
func New(cfg *config.Config, db *sqlx.DB, tokens auth.JWTService, log *logger.Logger, m *metrics.Metrics, h Handlers) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*playgroundvalidator.Validate); ok {
		validator.RegisterTimeOfDay(v)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		h.Availability.RegisterRoutes(api)
		h.Booking.RegisterRoutes(api)
		h.Offering.RegisterRoutes(api)
		h.Auth.RegisterRoutes(api)
		h.Customer.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))
	{
		h.Booking.RegisterProtectedRoutes(protected)
		h.Offering.RegisterProtectedRoutes(protected)
		h.Shift.RegisterProtectedRoutes(protected)
		h.Customer.RegisterProtectedRoutes(protected)
	}

	return r
}
