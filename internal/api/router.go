package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/api/middleware"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/handlers"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler, redisStore *store.RedisStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the inbox frontend is served from its own origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Static inbox page
	r.Get("/", serveIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir()))))

	r.Get("/health", h.Health)

	// Provider webhook. Deliveries must always be acknowledged, so no
	// rate limiting here; batches get a roomier body cap.
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(1 << 20)) // 1MB
		r.Get("/webhook", h.VerifyWebhook)
		r.Post("/webhook", h.ReceiveWebhook)
	})

	// Realtime channel
	r.Get("/ws", h.ServeWS)

	// Admin/API surface
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(64 * 1024)) // 64KB
		if redisStore != nil {
			limiter := middleware.NewRateLimiter(redisStore.Client(), logger)
			r.Use(limiter.Middleware)
		}

		r.Post("/accounts", h.CreateAccount)
		r.Get("/accounts", h.ListAccounts)
		r.Get("/messages", h.ListMessages)
		r.Post("/send", h.Send)
		r.Post("/bridge", h.Bridge)
	})

	return r
}

// staticDir returns the path to static files directory.
func staticDir() string {
	// Check if running from app directory (production container)
	if _, err := os.Stat("/app/web/static"); err == nil {
		return "/app/web/static"
	}
	return "web/static"
}

// serveIndex serves the minimal inbox page.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, staticDir()+"/index.html")
}
