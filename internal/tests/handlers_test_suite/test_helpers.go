package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/alerts"
	handler "github.com/rogerio-castellano/gestao-stock/internal/http/handlers"
	"github.com/rogerio-castellano/gestao-stock/internal/http/router"
	"github.com/rogerio-castellano/gestao-stock/internal/repo"
)

var (
	productRepo *repo.InMemoryProductRepository
	alertSink   *recordingNotifier
)

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	handler.SetLogger(quiet)

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)
	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(productRepo))

	alertSink = &recordingNotifier{}
	handler.SetNotifier(alertSink)
}

func newRouter() http.Handler {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return router.NewRouter(router.Options{Logger: quiet, CORSAllowedOrigins: "*"})
}

func clearAllProducts() {
	productRepo.Clear()
	alertSink.reset()
}

// recordingNotifier keeps alerts in memory, newest first.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []alerts.Alert
}

func (n *recordingNotifier) Notify(a alerts.Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append([]alerts.Alert{a}, n.alerts...)
}

func (n *recordingNotifier) Recent() ([]alerts.Alert, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]alerts.Alert{}, n.alerts...), nil
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = nil
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRaw(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/produtos", p)
}

func mustCreateProduct(r http.Handler, name string, quantity int) handler.CreatedProductResponse {
	w := doRaw(r, http.MethodPost, "/api/produtos", fmt.Sprintf(`{"nome": %q, "quantidade": %d}`, name, quantity))
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("creating %q: expected 201, got %d: %s", name, w.Code, w.Body.String()))
	}
	var resp handler.CreatedProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		panic(fmt.Sprintf("decoding created product: %v", err))
	}
	return resp
}

func listProducts(r http.Handler) ([]handler.ProductResponse, int) {
	w := doJSON(r, http.MethodGet, "/api/produtos", nil)
	var resp []handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp, w.Code
}

func decodeError(w *httptest.ResponseRecorder) string {
	var resp handler.ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp.Error
}

func strPtr(s string) *string { return &s }
