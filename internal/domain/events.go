package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AggregateTypeOrder — тип агрегата для событий заказа.
	AggregateTypeOrder = "order"
	// EventTypeOrderSubmitted публикуется после успешной отправки заказа.
	EventTypeOrderSubmitted = "order.submitted"
)

// OrderSubmittedPayload — тело события order.submitted.
type OrderSubmittedPayload struct {
	OrderID             string                     `json:"order_id"`
	ClientReferenceCode string                     `json:"client_reference_code"`
	Status              OrderStatus                `json:"status"`
	ItemCount           int32                      `json:"item_count"`
	TotalAmount         decimal.Decimal            `json:"total_amount"`
	Items               []OrderSubmittedItemRecord `json:"items"`
	SubmittedAt         time.Time                  `json:"submitted_at"`
}

// OrderSubmittedItemRecord — позиция в событии order.submitted.
type OrderSubmittedItemRecord struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	Units      int32           `json:"units"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewOrderSubmittedMessage собирает outbox-сообщение для уже сохранённого заказа (ID назначены).
func NewOrderSubmittedMessage(order Order) (OutboxMessage, error) {
	items := make([]OrderSubmittedItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderSubmittedItemRecord{
			ID:         item.ID,
			ItemID:     item.ItemID,
			Units:      item.Units,
			TotalPrice: item.TotalPrice,
		})
	}

	payload, err := json.Marshal(OrderSubmittedPayload{
		OrderID:             order.ID,
		ClientReferenceCode: order.ClientReferenceCode,
		Status:              order.Status,
		ItemCount:           order.ItemCount,
		TotalAmount:         order.TotalAmount,
		Items:               items,
		SubmittedAt:         order.CreatedAt,
	})
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("marshal order submitted payload: %w", err)
	}

	return OutboxMessage{
		AggregateType: AggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     EventTypeOrderSubmitted,
		Payload:       payload,
	}, nil
}
