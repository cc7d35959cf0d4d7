package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Handler exposes the booking commit over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Book handles POST /api/calendly/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conf, err := h.service.Commit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotConflict):
			http.Error(w, "Slot already booked", http.StatusConflict)
		case errors.Is(err, schedule.ErrMissingField), errors.Is(err, schedule.ErrUnknownAppointmentType):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("booking failed", "error", err)
			http.Error(w, "Failed to book appointment", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(conf); err != nil {
		h.logger.Error("failed to write booking response", "error", err)
	}
}
