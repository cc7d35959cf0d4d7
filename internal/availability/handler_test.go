package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	doc := &schedule.Document{
		AppointmentTypes: map[string]int{"consultation": 30},
		ExistingAppointments: []schedule.Appointment{
			{Date: "2024-01-15", StartTime: "09:00", EndTime: "09:30"},
		},
	}
	return NewHandler(newTestEngine(t, doc), logging.Discard())
}

func TestHandlerGet(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/calendly/availability?date=2024-01-15&appointment_type=consultation", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var day DayAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Equal(t, "2024-01-15", day.Date)
	require.Len(t, day.Slots, 16)
	assert.False(t, day.Slots[0].Available)
}

func TestHandlerGetMissingParams(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/calendly/availability?date=2024-01-15", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetUnknownType(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/calendly/availability?date=2024-01-15&appointment_type=massage", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown appointment type")
}

func TestHandlerGetInvalidDate(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/calendly/availability?date=Jan+15&appointment_type=consultation", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
