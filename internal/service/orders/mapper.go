package orders

import (
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// orderFromRequest строит новый заказ из проверенного запроса. ID назначает хранилище.
func orderFromRequest(req domain.SubmitOrderRequest, now time.Time) domain.Order {
	payload := req.Order
	items := make([]domain.OrderItem, 0, len(payload.Items))
	for i, item := range payload.Items {
		items = append(items, domain.OrderItem{
			ItemID:     item.ItemID,
			UnitPrice:  item.UnitPrice,
			Units:      item.Units,
			TotalPrice: item.TotalPrice,
			Position:   i,
		})
	}

	return domain.Order{
		ClientReferenceCode: req.ClientReferenceCode,
		Description:         payload.Description,
		ItemCount:           payload.ItemCount,
		TotalAmount:         payload.TotalAmount,
		Status:              domain.OrderStatusSubmitted,
		Items:               items,
		CreatedAt:           now,
	}
}

func toResult(order domain.Order) domain.OrderResult {
	items := make([]domain.OrderItemResult, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderItemResult{
			ID:         item.ID,
			ItemID:     item.ItemID,
			UnitPrice:  item.UnitPrice,
			Units:      item.Units,
			TotalPrice: item.TotalPrice,
		})
	}

	return domain.OrderResult{
		ID:                  order.ID,
		ClientReferenceCode: order.ClientReferenceCode,
		Description:         order.Description,
		ItemCount:           order.ItemCount,
		TotalAmount:         order.TotalAmount,
		Status:              order.Status,
		Items:               items,
	}
}

func toResults(orders []domain.Order) []domain.OrderResult {
	results := make([]domain.OrderResult, 0, len(orders))
	for _, order := range orders {
		results = append(results, toResult(order))
	}
	return results
}
