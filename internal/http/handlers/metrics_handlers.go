package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/gestao-stock/internal/validation"
)

// GetDashboardMetricsHandler godoc
// @Summary Stock dashboard metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.StockMetrics
// @Failure 500 {object} ErrorResponse
// @Router /api/metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetStockMetrics(validation.LowStockThreshold)
	if err != nil {
		writeFailure(w, r, err, msgMetricsFailed)
		return
	}
	respond(w, r, http.StatusOK, m)
}
