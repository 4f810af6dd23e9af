package ports

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, action string, actorID int64, payload any) error
}

type EventConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
	Close() error
}
