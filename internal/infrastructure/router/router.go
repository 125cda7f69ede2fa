package router

import (
	"net/http"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/notify"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/interface/handler"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the gateway routes to
type Handlers struct {
	Monitoring    *handler.MonitoringHandler
	Dashboard     *handler.DashboardHandler
	Costs         *handler.CostHandler
	Notifications *handler.NotificationHandler
	Hub           *notify.Hub
}

// Options configures the gateway router
type Options struct {
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

// New builds the gateway router
func New(h Handlers, opts Options, m *metrics.Metrics, log logger.Logger) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics(m))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	if h.Hub != nil {
		r.Get("/ws", notify.HandleWebSocket(h.Hub))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/monitoring", func(r chi.Router) {
			r.Get("/", h.Monitoring.List)
			r.Put("/search", h.Monitoring.Search)
			r.Post("/refresh", h.Monitoring.Refresh)
			r.Post("/{id}/predictions", h.Monitoring.Predictions)
			r.Get("/{id}/stages", h.Monitoring.Stages)
			r.Post("/{id}/stages/{stage}", h.Monitoring.SaveStage)
			r.Get("/{id}/submissions", h.Monitoring.Submissions)
		})

		r.Get("/dashboard", h.Dashboard.Get)
		r.Put("/dashboard/port/{id}", h.Dashboard.SelectPort)

		r.Get("/costs", h.Costs.Get)
		r.Get("/notifications", h.Notifications.List)
	})

	return r
}
