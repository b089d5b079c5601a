package repo

// StockMetrics summarizes the current stock for the dashboard.
type StockMetrics struct {
	TotalProducts int `json:"total_products"`
	TotalUnits    int `json:"total_units"`
	LowStockCount int `json:"low_stock_count"`
}

type MetricsRepository interface {
	GetStockMetrics(lowStockThreshold int) (StockMetrics, error)
}
