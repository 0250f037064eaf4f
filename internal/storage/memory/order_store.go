package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// orderStoreInMemory — in-memory реализация OrderStore для локальной разработки и тестов.
type orderStoreInMemory struct {
	mu     sync.RWMutex
	byID   map[string]domain.Order
	byCode map[string]string
	order  []string

	outbox *OutboxRepository
	now    func() time.Time
}

// StoreOption настраивает in-memory хранилище.
type StoreOption func(*orderStoreInMemory)

// WithOutbox включает запись события order.submitted в outbox в той же критической секции, что и заказ.
func WithOutbox(outbox *OutboxRepository) StoreOption {
	return func(s *orderStoreInMemory) {
		s.outbox = outbox
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) StoreOption {
	return func(s *orderStoreInMemory) {
		if now != nil {
			s.now = now
		}
	}
}

// NewOrderStore возвращает in-memory хранилище заказов.
func NewOrderStore(opts ...StoreOption) domain.OrderStore {
	s := &orderStoreInMemory{
		byID:   make(map[string]domain.Order),
		byCode: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create сохраняет заказ и его позиции целиком либо не сохраняет ничего.
func (s *orderStoreInMemory) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, errors.Join(domain.ErrStoreUnavailable, err)
	}

	// Копия до любых изменений: вызывающий код не должен видеть назначенные ID через общий слайс.
	order = order.Clone()
	order.ClientReferenceCode = strings.TrimSpace(order.ClientReferenceCode)
	if order.Status == "" {
		order.Status = domain.OrderStatusSubmitted
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}

	order.ID = uuid.NewString()
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	var event domain.OutboxMessage
	if s.outbox != nil {
		msg, err := domain.NewOrderSubmittedMessage(order)
		if err != nil {
			return domain.Order{}, err
		}
		event = msg
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[order.ClientReferenceCode]; exists {
		return domain.Order{}, domain.ErrDuplicateOrder
	}

	s.byID[order.ID] = order
	s.byCode[order.ClientReferenceCode] = order.ID
	s.order = append(s.order, order.ID)
	if s.outbox != nil {
		s.outbox.enqueue(event, order.CreatedAt)
	}

	return order.Clone(), nil
}

// FindByID возвращает копию заказа по идентификатору.
func (s *orderStoreInMemory) FindByID(ctx context.Context, id string) (domain.Order, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, false, errors.Join(domain.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.byID[id]
	if !ok {
		return domain.Order{}, false, nil
	}
	return order.Clone(), true, nil
}

// FindByClientReferenceCode ищет заказ по клиентскому коду.
func (s *orderStoreInMemory) FindByClientReferenceCode(ctx context.Context, code string) (domain.Order, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, false, errors.Join(domain.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[strings.TrimSpace(code)]
	if !ok {
		return domain.Order{}, false, nil
	}
	return s.byID[id].Clone(), true, nil
}

// FindAll возвращает все заказы в порядке создания.
func (s *orderStoreInMemory) FindAll(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id].Clone())
	}
	return result, nil
}

var _ domain.OrderStore = (*orderStoreInMemory)(nil)
