// Package metrics exposes Prometheus instrumentation for the HTTP layer
// and a collector that reports the current stock on every scrape.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rogerio-castellano/gestao-stock/internal/repo"
)

// Registry holds the service's collectors. Tests build their own.
type Registry struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stock",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	r.reg.MustRegister(r.requests, r.latency)
	return r
}

// RegisterStock adds gauges computed from the products store at scrape time.
func (r *Registry) RegisterStock(metricsRepo repo.MetricsRepository, lowStockThreshold int) {
	r.reg.MustRegister(&stockCollector{repo: metricsRepo, threshold: lowStockThreshold})
}

// Handler serves the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware records one observation per request, labelled by the chi
// route pattern so ids do not explode label cardinality.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.requests.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
		r.latency.WithLabelValues(route, req.Method).Observe(time.Since(start).Seconds())
	})
}

var (
	productsDesc = prometheus.NewDesc("stock_products", "Number of products in stock.", nil, nil)
	unitsDesc    = prometheus.NewDesc("stock_units", "Sum of quantities over all products.", nil, nil)
	lowStockDesc = prometheus.NewDesc("stock_low_stock_products", "Products at or below the low-stock threshold.", nil, nil)
	upDesc       = prometheus.NewDesc("stock_store_up", "Whether the last store read for metrics succeeded.", nil, nil)
)

type stockCollector struct {
	repo      repo.MetricsRepository
	threshold int
}

func (c *stockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- productsDesc
	ch <- unitsDesc
	ch <- lowStockDesc
	ch <- upDesc
}

func (c *stockCollector) Collect(ch chan<- prometheus.Metric) {
	m, err := c.repo.GetStockMetrics(c.threshold)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(productsDesc, prometheus.GaugeValue, float64(m.TotalProducts))
	ch <- prometheus.MustNewConstMetric(unitsDesc, prometheus.GaugeValue, float64(m.TotalUnits))
	ch <- prometheus.MustNewConstMetric(lowStockDesc, prometheus.GaugeValue, float64(m.LowStockCount))
}
