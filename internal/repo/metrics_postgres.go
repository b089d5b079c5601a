package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresMetricsRepository(db *sql.DB, timeout time.Duration) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db, timeout: timeout}
}

func (r *PostgresMetricsRepository) GetStockMetrics(lowStockThreshold int) (StockMetrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var m StockMetrics
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantidade), 0),
		       COUNT(*) FILTER (WHERE quantidade <= $1)
		FROM produtos
	`, lowStockThreshold).Scan(&m.TotalProducts, &m.TotalUnits, &m.LowStockCount)
	if err != nil {
		return StockMetrics{}, storeErr("stock metrics", err)
	}
	return m, nil
}
