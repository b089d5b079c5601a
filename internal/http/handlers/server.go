package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/alerts"
	repo "github.com/rogerio-castellano/gestao-stock/internal/repo"
)

var (
	productRepo  repo.ProductRepository
	metricsRepo  repo.MetricsRepository
	notifier     alerts.Notifier = alerts.Noop{}
	healthChecks HealthChecks

	log logrus.FieldLogger = logrus.StandardLogger()
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

// SetNotifier installs the low-stock alert sink. nil restores the no-op.
func SetNotifier(n alerts.Notifier) {
	if n == nil {
		n = alerts.Noop{}
	}
	notifier = n
}

func SetHealthChecks(c HealthChecks) {
	healthChecks = c
}

func SetLogger(l logrus.FieldLogger) {
	log = l
}
