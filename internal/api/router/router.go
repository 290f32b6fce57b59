package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pulsecare/patient-platform/internal/http/handlers"
	httpmiddleware "github.com/pulsecare/patient-platform/internal/http/middleware"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	MedicationHandler   *handlers.MedicationHandler
	AlertsHandler       *handlers.AlertsHandler
	AppointmentsHandler *handlers.AppointmentsHandler
	PushHandler         *handlers.PushHandler
	MetricsHandler      http.Handler
	AuthSecret          string
	CORSAllowedOrigins  []string

	// Requests/sec and burst per caller; zero disables limiting.
	RateLimit      float64
	RateLimitBurst int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.Logger != nil {
			public.Use(httpmiddleware.RequestLogger(cfg.Logger))
		}
		public.Get("/health", handleHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated dashboard API.
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.Auth(cfg.AuthSecret))
		if cfg.RateLimit > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimit, cfg.RateLimitBurst))
		}

		// The websocket upgrade hijacks the connection, so the push route
		// stays outside the wrapping request logger.
		if cfg.PushHandler != nil {
			api.Get("/ws", cfg.PushHandler.Connect)
		}

		api.Group(func(api chi.Router) {
			if cfg.Logger != nil {
				api.Use(httpmiddleware.RequestLogger(cfg.Logger))
			}

			if cfg.MedicationHandler != nil {
				api.Route("/medications", func(r chi.Router) {
					r.Get("/schedule", cfg.MedicationHandler.GetSchedule)
					r.Post("/taken", cfg.MedicationHandler.MarkTaken)
					r.Delete("/taken", cfg.MedicationHandler.ClearTaken)
				})
			}

			if cfg.AlertsHandler != nil {
				api.Route("/alerts", func(r chi.Router) {
					r.Get("/", cfg.AlertsHandler.List)
					r.Get("/summary", cfg.AlertsHandler.Summary)
					r.Put("/read-all", cfg.AlertsHandler.MarkAllRead)
					r.Put("/{alertID}/read", cfg.AlertsHandler.MarkRead)
					r.Delete("/{alertID}", cfg.AlertsHandler.Delete)
					r.Delete("/", cfg.AlertsHandler.ClearAll)
				})
			}

			if cfg.AppointmentsHandler != nil {
				api.Route("/appointments", func(r chi.Router) {
					r.Get("/", cfg.AppointmentsHandler.List)
					r.Get("/current", cfg.AppointmentsHandler.Current)
					r.Get("/past", cfg.AppointmentsHandler.Past)
					r.Post("/", cfg.AppointmentsHandler.Create)
					r.Post("/{appointmentID}/cancel", cfg.AppointmentsHandler.Cancel)
				})
				api.Get("/doctors", cfg.AppointmentsHandler.Doctors)
			}
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
