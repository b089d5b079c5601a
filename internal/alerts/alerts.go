// Package alerts records low-stock events produced by successful writes.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/redissvc"
)

// LowStockLogKey is the Redis list holding the most recent alerts, newest first.
const LowStockLogKey = "stock:lowstock:alerts"

// Alert is one low-stock event.
type Alert struct {
	ProductID int       `json:"produto_id"`
	Name      string    `json:"nome,omitempty"`
	Quantity  int       `json:"quantidade"`
	Operation string    `json:"operacao"`
	Time      time.Time `json:"time"`
}

// Notifier stores and lists low-stock alerts.
type Notifier interface {
	// Notify records a. Failures are logged by the implementation and
	// never reach the write that triggered the alert.
	Notify(a Alert)
	Recent() ([]Alert, error)
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) Notify(Alert) {}

func (Noop) Recent() ([]Alert, error) { return []Alert{}, nil }

// RedisNotifier keeps the last limit alerts in a capped Redis list.
type RedisNotifier struct {
	rdb     *redis.Client
	ctx     context.Context
	limit   int64
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewRedisNotifier(rs *redissvc.RedisService, limit int, log logrus.FieldLogger) *RedisNotifier {
	return &RedisNotifier{
		rdb:     rs.Rdb(),
		ctx:     rs.Ctx(),
		limit:   int64(limit),
		timeout: 2 * time.Second,
		log:     log.WithField("component", "lowstock_alerts"),
	}
}

func (n *RedisNotifier) Notify(a Alert) {
	data, err := json.Marshal(a)
	if err != nil {
		n.log.WithError(err).Error("failed to encode low-stock alert")
		return
	}

	ctx, cancel := context.WithTimeout(n.ctx, n.timeout)
	defer cancel()

	_, err = n.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, LowStockLogKey, data)
		pipe.LTrim(ctx, LowStockLogKey, 0, n.limit-1)
		return nil
	})
	if err != nil {
		n.log.WithFields(logrus.Fields{"product_id": a.ProductID}).WithError(err).Warn("failed to record low-stock alert")
	}
}

func (n *RedisNotifier) Recent() ([]Alert, error) {
	ctx, cancel := context.WithTimeout(n.ctx, n.timeout)
	defer cancel()

	entries, err := n.rdb.LRange(ctx, LowStockLogKey, 0, n.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read low-stock alerts: %w", err)
	}

	out := make([]Alert, 0, len(entries))
	for _, item := range entries {
		var a Alert
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			n.log.WithError(err).Warn("skipping malformed low-stock alert")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
