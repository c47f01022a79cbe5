package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/bookline/booking-api/internal/service/availability"
	apperrors "github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Availability is cached briefly to absorb bursts of identical queries while a
// customer browses the calendar. Stale-by-seconds is acceptable; the booking
// insert is the authority on conflicts.
const cacheTTL = 15 * time.Second

type Handler struct {
	service *availability.Service
	cache   *cache.Cache
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewHandler(service *availability.Service, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		cache:   cache.New(cacheTTL, time.Minute),
		logger:  log,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/offerings/:id/availability", h.GetAvailability)
}

// GetAvailability returns the slots for an offering on one day.
// Query parameter date is required, formatted YYYY-MM-DD.
func (h *Handler) GetAvailability(c *gin.Context) {
	offeringID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid offering ID", err))
		return
	}

	dateParam := c.Query("date")
	day, err := time.Parse(dateLayout, dateParam)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("date must be formatted YYYY-MM-DD", err))
		return
	}

	cacheKey := fmt.Sprintf("%s/%s", offeringID, dateParam)
	if cached, found := h.cache.Get(cacheKey); found {
		h.metrics.AvailabilityRequests.WithLabelValues("cache_hit").Inc()
		httputil.RespondWithSuccess(c, cached)
		return
	}

	start := time.Now()
	slots, err := h.service.GetAvailableSlots(c.Request.Context(), offeringID, day)
	h.metrics.AvailabilityLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.AvailabilityRequests.WithLabelValues("error").Inc()
		h.respondError(c, err)
		return
	}

	h.metrics.AvailabilityRequests.WithLabelValues("ok").Inc()
	h.metrics.SlotsGenerated.Observe(float64(len(slots)))

	response := gin.H{
		"offering_id": offeringID,
		"date":        dateParam,
		"slots":       slots,
	}
	h.cache.Set(cacheKey, response, cache.DefaultExpiration)
	httputil.RespondWithSuccess(c, response)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrOfferingNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("offering", err))
	case errors.Is(err, availability.ErrOfferingInactive):
		httputil.RespondWithError(c, apperrors.NewUnprocessable("offering is not bookable", err))
	case errors.Is(err, availability.ErrNoShift):
		httputil.RespondWithError(c, apperrors.NewUnprocessable("no working hours on that day", err))
	case errors.Is(err, availability.ErrDayUnavailable):
		httputil.RespondWithError(c, apperrors.NewUnprocessable("staff member is unavailable that day", err))
	default:
		h.logger.Error(err, "availability query failed")
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
