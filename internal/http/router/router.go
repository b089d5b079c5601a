package router

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/gestao-stock/docs"
	"github.com/rogerio-castellano/gestao-stock/internal/http/handlers"
	"github.com/rogerio-castellano/gestao-stock/internal/logger"
	"github.com/rogerio-castellano/gestao-stock/internal/metrics"
)

// Options configures the ambient middleware around the API routes.
type Options struct {
	Logger *logrus.Logger
	// Metrics is optional; without it /metrics is not served.
	Metrics *metrics.Registry
	// CORSAllowedOrigins is a comma-separated list; "*" allows all.
	CORSAllowedOrigins string
	// StaticDir is served at / when it exists.
	StaticDir string
}

func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(opts.Logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(corsHandler(opts.CORSAllowedOrigins))

	r.Route("/api/produtos", func(r chi.Router) {
		r.Get("/", handlers.GetProductsHandler)
		r.Post("/", handlers.CreateProductHandler)
		r.Get("/busca/{termo}", handlers.SearchProductsHandler)
		r.Get("/alertas", handlers.GetLowStockAlertsHandler)
		r.Get("/{id}", handlers.GetProductByIDHandler)
		r.Put("/{id}", handlers.UpdateProductHandler)
		r.Patch("/{id}/quantidade", handlers.UpdateQuantityHandler)
		r.Delete("/{id}", handlers.DeleteProductHandler)
	})
	r.Get("/api/metrics/dashboard", handlers.GetDashboardMetricsHandler)

	r.Get("/health", handlers.HealthHandler)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
		}
	}

	return r
}

func corsHandler(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(allowedOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
