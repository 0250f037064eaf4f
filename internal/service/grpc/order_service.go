package grpcsvc

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	ordersv1 "github.com/vladislavdragonenkov/orderdesk/proto/orders/v1"
)

// errorDomain попадает в ErrorInfo.Domain каждого статуса ошибки.
const errorDomain = "orderdesk"

// OrderService реализует gRPC API orders.v1 поверх доменного сервиса заказов.
type OrderService struct {
	ordersv1.UnimplementedOrderServiceServer

	svc    domain.OrderService
	logger *log.Entry
}

// NewOrderService конструирует gRPC-обёртку.
func NewOrderService(svc domain.OrderService, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "order-grpc")
	}
	return &OrderService{
		svc:    svc,
		logger: logger,
	}
}

// SubmitOrder принимает новый заказ.
func (s *OrderService) SubmitOrder(ctx context.Context, req *ordersv1.SubmitOrderRequest) (*ordersv1.SubmitOrderResponse, error) {
	if req == nil {
		return nil, statusError(domain.ErrInvalidInput)
	}

	submission, err := toDomainSubmission(req)
	if err != nil {
		return nil, statusError(err)
	}

	result, err := s.svc.Submit(ctx, submission)
	if err != nil {
		return nil, s.fail(err, "SubmitOrder")
	}

	return &ordersv1.SubmitOrderResponse{Order: toProtoOrder(result)}, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *OrderService) GetOrder(ctx context.Context, req *ordersv1.GetOrderRequest) (*ordersv1.GetOrderResponse, error) {
	result, err := s.svc.GetByID(ctx, req.GetOrderId())
	if err != nil {
		return nil, s.fail(err, "GetOrder")
	}
	return &ordersv1.GetOrderResponse{Order: toProtoOrder(result)}, nil
}

// ListOrders возвращает все заказы.
func (s *OrderService) ListOrders(ctx context.Context, _ *emptypb.Empty) (*ordersv1.ListOrdersResponse, error) {
	results, err := s.svc.ListAll(ctx)
	if err != nil {
		return nil, s.fail(err, "ListOrders")
	}

	orders := make([]*ordersv1.Order, 0, len(results))
	for _, result := range results {
		orders = append(orders, toProtoOrder(result))
	}
	return &ordersv1.ListOrdersResponse{Orders: orders}, nil
}

// fail пишет серверные ошибки в лог и переводит ошибку в статус gRPC.
func (s *OrderService) fail(err error, operation string) error {
	if !domain.KindOf(err).ClientCaused() {
		s.logger.WithError(err).WithField("operation", operation).Error("order request failed")
	}
	return statusError(err)
}

var kindCodes = map[domain.Kind]codes.Code{
	domain.KindInvalidInput:   codes.InvalidArgument,
	domain.KindDuplicateOrder: codes.AlreadyExists,
	domain.KindOrderNotFound:  codes.NotFound,
	domain.KindUnavailable:    codes.Unavailable,
}

// statusError переводит доменную ошибку в статус gRPC с ErrorInfo.
// Для серверных ошибок текст причины не раскрывается.
func statusError(err error) error {
	kind := domain.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		code = codes.Internal
	}

	msg := err.Error()
	switch kind {
	case domain.KindUnavailable:
		msg = domain.ErrStoreUnavailable.Error()
		if errors.Is(err, domain.ErrLockTimeout) {
			msg = domain.ErrLockTimeout.Error()
		}
	case domain.KindInternal:
		msg = "internal error"
	}

	st := status.New(code, msg)
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(kind),
		Domain: errorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
