package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/infrastructure/metrics"
)

// publish never fails the caller; a lost event is logged and counted.
func publish(
	ctx context.Context,
	logger *zap.Logger,
	pub ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	action string,
	actorID int64,
	payload any,
) {
	if err := pub.Publish(ctx, action, actorID, payload); err != nil {
		logger.Error("publish event", zap.String("action", action), zap.Error(err))
		mCounter.WithLabelValues(metrics.EventPublishError).Inc()
	}
}
