package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const tracerName = "github.com/vladislavdragonenkov/orderdesk/internal/observability"

// Service оборачивает domain.OrderService спанами на каждую операцию.
type Service struct {
	inner  domain.OrderService
	tracer trace.Tracer
}

// NewService создаёт трассирующий декоратор. Пустой provider означает noop.
func NewService(inner domain.OrderService, provider trace.TracerProvider) *Service {
	if provider == nil {
		provider = nooptrace.NewTracerProvider()
	}
	return &Service{
		inner:  inner,
		tracer: provider.Tracer(tracerName),
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitOrderRequest) (domain.OrderResult, error) {
	items := 0
	if req.Order != nil {
		items = len(req.Order.Items)
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.Submit", trace.WithAttributes(
		attribute.String("order.client_reference_code", req.ClientReferenceCode),
		attribute.Int("order.items", items),
	))
	defer span.End()

	result, err := s.inner.Submit(ctx, req)
	if err != nil {
		recordError(span, err)
		return domain.OrderResult{}, err
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.OrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(
		attribute.String("order.id", id),
	))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return domain.OrderResult{}, err
	}
	span.SetAttributes(attribute.Int("order.items", len(result.Items)))
	return result, nil
}

func (s *Service) ListAll(ctx context.Context) ([]domain.OrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAll")
	defer span.End()

	results, err := s.inner.ListAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("orders.count", len(results)))
	return results, nil
}

// recordError помечает спан ошибкой; статус Error ставится только для серверных сбоев.
func recordError(span trace.Span, err error) {
	kind := domain.KindOf(err)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))
	if !kind.ClientCaused() {
		span.SetStatus(codes.Error, string(kind))
	}
}

var _ domain.OrderService = (*Service)(nil)
