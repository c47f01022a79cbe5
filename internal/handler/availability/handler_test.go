package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	availabilityservice "github.com/bookline/booking-api/internal/service/availability"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "availability_handler")

type fakeOfferingRepo struct {
	offering *model.Offering
}

func (f *fakeOfferingRepo) Get(_ context.Context, id uuid.UUID) (*model.Offering, error) {
	if f.offering == nil || f.offering.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.offering, nil
}

func (f *fakeOfferingRepo) Create(context.Context, *model.Offering) error { return nil }
func (f *fakeOfferingRepo) Update(context.Context, *model.Offering) error { return nil }
func (f *fakeOfferingRepo) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakeOfferingRepo) List(context.Context, *model.OfferingFilters) ([]*model.Offering, error) {
	return nil, nil
}

type fakeShiftRepo struct {
	shift *model.Shift
}

func (f *fakeShiftRepo) GetByStaffAndWeekday(_ context.Context, staffID uuid.UUID, weekday time.Weekday) (*model.Shift, error) {
	if f.shift == nil || f.shift.StaffID != staffID || f.shift.Weekday != weekday {
		return nil, repository.ErrNotFound
	}
	return f.shift, nil
}

func (f *fakeShiftRepo) Upsert(context.Context, *model.Shift) error { return nil }
func (f *fakeShiftRepo) Get(context.Context, uuid.UUID) (*model.Shift, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeShiftRepo) ListForStaff(context.Context, uuid.UUID) ([]*model.Shift, error) {
	return nil, nil
}
func (f *fakeShiftRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeBookingRepo struct{}

func (f *fakeBookingRepo) ListForOfferingOnDay(context.Context, uuid.UUID, time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) Create(context.Context, *model.Booking) error { return nil }
func (f *fakeBookingRepo) Get(context.Context, uuid.UUID) (*model.Booking, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeBookingRepo) Update(context.Context, *model.Booking) error { return nil }
func (f *fakeBookingRepo) List(context.Context, *model.BookingFilters) ([]*model.Booking, error) {
	return nil, nil
}

func setupRouter(offering *model.Offering, shift *model.Shift) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := availabilityservice.NewService(
		&fakeOfferingRepo{offering: offering},
		&fakeShiftRepo{shift: shift},
		&fakeBookingRepo{},
	)
	h := NewHandler(svc, logger.NewLogger(&logger.Config{Output: io.Discard}), testMetrics)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func testOfferingAndShift(active bool) (*model.Offering, *model.Shift) {
	offering := &model.Offering{
		StaffID:         uuid.New(),
		Name:            "Consultation",
		DurationMinutes: 60,
		Active:          active,
	}
	offering.ID = uuid.New()

	// 2025-03-11 is a Tuesday
	shift := &model.Shift{
		StaffID:   offering.StaffID,
		Weekday:   time.Tuesday,
		StartTime: "09:00",
		EndTime:   "12:00",
	}
	return offering, shift
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetAvailability(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	w := get(r, fmt.Sprintf("/api/v1/offerings/%s/availability?date=2025-03-11", offering.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Date  string       `json:"date"`
			Slots []model.Slot `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "2025-03-11", resp.Data.Date)
	assert.Len(t, resp.Data.Slots, 3)
}

func TestGetAvailabilityCachedResponseMatches(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	url := fmt.Sprintf("/api/v1/offerings/%s/availability?date=2025-03-11", offering.ID)
	first := get(r, url)
	second := get(r, url)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestGetAvailabilityUnknownOffering(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	w := get(r, fmt.Sprintf("/api/v1/offerings/%s/availability?date=2025-03-11", uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAvailabilityInactiveOffering(t *testing.T) {
	offering, shift := testOfferingAndShift(false)
	r := setupRouter(offering, shift)

	w := get(r, fmt.Sprintf("/api/v1/offerings/%s/availability?date=2025-03-11", offering.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetAvailabilityNoShift(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	// Wednesday has no shift
	w := get(r, fmt.Sprintf("/api/v1/offerings/%s/availability?date=2025-03-12", offering.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetAvailabilityBadDate(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	w := get(r, fmt.Sprintf("/api/v1/offerings/%s/availability?date=11-03-2025", offering.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, fmt.Sprintf("/api/v1/offerings/%s/availability", offering.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailabilityBadOfferingID(t *testing.T) {
	offering, shift := testOfferingAndShift(true)
	r := setupRouter(offering, shift)

	w := get(r, "/api/v1/offerings/not-a-uuid/availability?date=2025-03-11")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
