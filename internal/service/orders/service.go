package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
)

// Service реализует отправку и чтение заказов поверх OrderStore.
// Сервис не хранит состояния между вызовами; уникальность кода обеспечивает хранилище.
type Service struct {
	store    domain.OrderStore
	locker   domain.SubmissionLocker
	metrics  *metrics.OrderMetrics
	logger   *log.Entry
	now      func() time.Time
	validate *validator.Validate
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocker включает блокировку по client reference code на время отправки.
func WithLocker(locker domain.SubmissionLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithMetrics задаёт метрики сервиса.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService конструирует сервис с внедрённым хранилищем.
func NewService(store domain.OrderStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   log.WithFields(log.Fields{"component": "order-service", "layer": "service"}),
		now:      func() time.Time { return time.Now().UTC() },
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit проверяет запрос, отклоняет повторный client reference code и сохраняет заказ с позициями атомарно.
func (s *Service) Submit(ctx context.Context, req domain.SubmitOrderRequest) (result domain.OrderResult, err error) {
	started := s.now()
	defer func() {
		s.metrics.RecordSubmission(domain.KindOf(err), s.now().Sub(started))
	}()

	req = cloneRequest(req)
	req.ClientReferenceCode = strings.TrimSpace(req.ClientReferenceCode)
	entry := s.logger.WithField("client_reference_code", req.ClientReferenceCode)

	if err = s.validateSubmission(&req); err != nil {
		entry.WithError(err).Debug("order submission rejected by validation")
		return domain.OrderResult{}, err
	}
	s.flagTotals(entry, req.Order)

	if s.locker != nil {
		unlock, lockErr := s.locker.Lock(ctx, req.ClientReferenceCode)
		if lockErr != nil {
			err = fmt.Errorf("acquire submission lock: %w", lockErr)
			entry.WithError(err).Warn("order submission lock is unavailable")
			return domain.OrderResult{}, err
		}
		defer unlock()
	}

	_, found, err := s.store.FindByClientReferenceCode(ctx, req.ClientReferenceCode)
	if err != nil {
		err = storeFault("find order by client reference code", err)
		entry.WithError(err).Error("failed to check client reference code")
		return domain.OrderResult{}, err
	}
	if found {
		err = domain.ErrDuplicateOrder
		entry.Info("duplicate order submission rejected")
		return domain.OrderResult{}, err
	}

	created, err := s.store.Create(ctx, orderFromRequest(req, s.now()))
	if err != nil {
		err = storeFault("create order", err)
		if domain.KindOf(err) == domain.KindDuplicateOrder {
			entry.Info("concurrent duplicate order submission rejected by store")
		} else {
			entry.WithError(err).Error("failed to persist order")
		}
		return domain.OrderResult{}, err
	}

	entry.WithFields(log.Fields{
		"order_id": created.ID,
		"items":    len(created.Items),
	}).Info("order submitted")

	return toResult(created), nil
}

// GetByID возвращает заказ по идентификатору.
func (s *Service) GetByID(ctx context.Context, id string) (result domain.OrderResult, err error) {
	defer func() {
		s.metrics.RecordLookup(metrics.LookupGet, domain.KindOf(err))
	}()

	id, err = validateOrderID(id)
	if err != nil {
		return domain.OrderResult{}, err
	}

	order, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		err = storeFault("find order", err)
		s.logger.WithError(err).WithField("order_id", id).Error("failed to load order")
		return domain.OrderResult{}, err
	}
	if !found {
		err = fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
		return domain.OrderResult{}, err
	}

	return toResult(order), nil
}

// ListAll возвращает все заказы с позициями в порядке создания.
func (s *Service) ListAll(ctx context.Context) (results []domain.OrderResult, err error) {
	defer func() {
		s.metrics.RecordLookup(metrics.LookupList, domain.KindOf(err))
	}()

	orders, err := s.store.FindAll(ctx)
	if err != nil {
		err = storeFault("list orders", err)
		s.logger.WithError(err).Error("failed to list orders")
		return nil, err
	}

	return toResults(orders), nil
}

func (s *Service) flagTotals(entry *log.Entry, payload *domain.OrderPayload) {
	for _, field := range totalsMismatches(payload) {
		s.metrics.RecordTotalsMismatch(field)
		entry.WithField("field", field).Warn("order totals disagree with items, keeping caller values")
	}
}

// storeFault сохраняет доменную классификацию ошибки хранилища,
// а всё неизвестное относит к недоступности хранилища.
func storeFault(op string, err error) error {
	switch domain.KindOf(err) {
	case domain.KindDuplicateOrder, domain.KindInvalidInput, domain.KindOrderNotFound, domain.KindUnavailable:
		return fmt.Errorf("%s: %w", op, err)
	default:
		return errors.Join(domain.ErrStoreUnavailable, fmt.Errorf("%s: %w", op, err))
	}
}

// cloneRequest копирует payload, чтобы нормализация не меняла данные вызывающего кода.
func cloneRequest(req domain.SubmitOrderRequest) domain.SubmitOrderRequest {
	if req.Order == nil {
		return req
	}
	payload := *req.Order
	payload.Items = append([]domain.OrderItemPayload(nil), req.Order.Items...)
	req.Order = &payload
	return req
}

var _ domain.OrderService = (*Service)(nil)
