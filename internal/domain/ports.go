package domain

import (
	"context"
	"time"
)

// OrderService — операции ядра, доступные шлюзам (gRPC, REST).
type OrderService interface {
	Submit(ctx context.Context, req SubmitOrderRequest) (OrderResult, error)
	GetByID(ctx context.Context, id string) (OrderResult, error)
	ListAll(ctx context.Context) ([]OrderResult, error)
}

// SubmissionLocker сериализует отправки с одинаковым client reference code.
type SubmissionLocker interface {
	// Lock блокирует ключ до вызова unlock или отмены ctx.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository отдаёт накопленные события воркеру публикации.
// Запись событий выполняет OrderStore в транзакции создания заказа.
type OutboxRepository interface {
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
