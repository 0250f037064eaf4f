package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// submitOrderRequest — тело POST /orders. orderDto принимается как синоним order.
type submitOrderRequest struct {
	ClientReferenceCode string        `json:"clientReferenceCode"`
	Order               *orderPayload `json:"order"`
	OrderDto            *orderPayload `json:"orderDto"`
}

type orderPayload struct {
	Description string             `json:"description"`
	ItemCount   int32              `json:"itemCount"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ItemID     string          `json:"itemId"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Units      int32           `json:"units"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type orderResponse struct {
	ID                  string              `json:"id"`
	ClientReferenceCode string              `json:"clientReferenceCode"`
	Description         string              `json:"description"`
	ItemCount           int32               `json:"itemCount"`
	TotalAmount         decimal.Decimal     `json:"totalAmount"`
	Status              string              `json:"status"`
	Items               []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"itemId"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Units      int32           `json:"units"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (r submitOrderRequest) toDomain() domain.SubmitOrderRequest {
	payload := r.Order
	if payload == nil {
		payload = r.OrderDto
	}

	req := domain.SubmitOrderRequest{ClientReferenceCode: r.ClientReferenceCode}
	if payload == nil {
		return req
	}

	items := make([]domain.OrderItemPayload, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, domain.OrderItemPayload{
			ItemID:     item.ItemID,
			UnitPrice:  item.UnitPrice,
			Units:      item.Units,
			TotalPrice: item.TotalPrice,
		})
	}
	req.Order = &domain.OrderPayload{
		Description: payload.Description,
		ItemCount:   payload.ItemCount,
		TotalAmount: payload.TotalAmount,
		Items:       items,
	}
	return req
}

func toOrderResponse(result domain.OrderResult) orderResponse {
	items := make([]orderItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, orderItemResponse{
			ID:         item.ID,
			ItemID:     item.ItemID,
			UnitPrice:  item.UnitPrice,
			Units:      item.Units,
			TotalPrice: item.TotalPrice,
		})
	}
	return orderResponse{
		ID:                  result.ID,
		ClientReferenceCode: result.ClientReferenceCode,
		Description:         result.Description,
		ItemCount:           result.ItemCount,
		TotalAmount:         result.TotalAmount,
		Status:              string(result.Status),
		Items:               items,
	}
}

func toOrderResponses(results []domain.OrderResult) []orderResponse {
	out := make([]orderResponse, 0, len(results))
	for _, result := range results {
		out = append(out, toOrderResponse(result))
	}
	return out
}
