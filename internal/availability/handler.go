package availability

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Handler exposes the availability query over HTTP.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates an availability handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// Get handles GET /api/calendly/availability?date=...&appointment_type=...
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	appointmentType := r.URL.Query().Get("appointment_type")
	if date == "" || appointmentType == "" {
		http.Error(w, "date and appointment_type are required", http.StatusBadRequest)
		return
	}
	if _, err := schedule.ParseDate(date); err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	day, err := h.engine.ComputeAvailability(r.Context(), date, appointmentType)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownAppointmentType) {
			http.Error(w, "Unknown appointment type", http.StatusBadRequest)
			return
		}
		h.logger.Error("availability query failed", "date", date, "appointment_type", appointmentType, "error", err)
		http.Error(w, "Failed to compute availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(day); err != nil {
		h.logger.Error("failed to write availability response", "error", err)
	}
}
