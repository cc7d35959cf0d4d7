package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/availability"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/booking"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/conversation"
	httpmiddleware "github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/http/middleware"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates the Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)

	r.Route("/api", func(api chi.Router) {
		api.Post("/chat", cfg.ConversationHandler.Chat)
		api.Route("/calendly", func(cal chi.Router) {
			cal.Get("/availability", cfg.AvailabilityHandler.Get)
			cal.Post("/book", cfg.BookingHandler.Book)
		})
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "Appointment Scheduling Agent is running.",
	})
}
