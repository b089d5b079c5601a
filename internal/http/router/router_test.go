package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/gestao-stock/internal/http/handlers"
	"github.com/rogerio-castellano/gestao-stock/internal/metrics"
	"github.com/rogerio-castellano/gestao-stock/internal/repo"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseOrigins("http://a.test, http://b.test"))
}

func TestCORSPreflight(t *testing.T) {
	r := NewRouter(Options{Logger: quietLogger(), CORSAllowedOrigins: "http://loja.test"})

	req := httptest.NewRequest(http.MethodOptions, "/api/produtos", nil)
	req.Header.Set("Origin", "http://loja.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := serve(r, req)

	assert.Equal(t, "http://loja.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req = httptest.NewRequest(http.MethodOptions, "/api/produtos", nil)
	req.Header.Set("Origin", "http://other.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>stock</h1>"), 0o644))

	r := NewRouter(Options{Logger: quietLogger(), StaticDir: dir})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>stock</h1>")
}

func TestMissingStaticDirIsIgnored(t *testing.T) {
	r := NewRouter(Options{Logger: quietLogger(), StaticDir: filepath.Join(t.TempDir(), "absent")})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	handlers.SetProductRepo(products)
	handlers.SetLogger(quietLogger())

	registry := metrics.NewRegistry()
	registry.RegisterStock(repo.NewInMemoryMetricsRepository(products), 3)
	r := NewRouter(Options{Logger: quietLogger(), Metrics: registry})

	_, err := products.Create("Parafuso", 2)
	require.NoError(t, err)
	serve(r, httptest.NewRequest(http.MethodGet, "/api/produtos", nil))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `stock_http_requests_total{method="GET",route="/api/produtos`)
	assert.Contains(t, body, "stock_low_stock_products 1")

	w = serve(NewRouter(Options{Logger: quietLogger()}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
