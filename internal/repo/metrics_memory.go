package repo

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo}
}

// GetStockMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetStockMetrics(lowStockThreshold int) (StockMetrics, error) {
	m := StockMetrics{}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}

	m.TotalProducts = len(products)
	for _, product := range products {
		m.TotalUnits += product.Quantity
		if product.Quantity <= lowStockThreshold {
			m.LowStockCount++
		}
	}
	return m, nil
}
