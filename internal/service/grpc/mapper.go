package grpcsvc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	ordersv1 "github.com/vladislavdragonenkov/orderdesk/proto/orders/v1"
)

func toDomainSubmission(req *ordersv1.SubmitOrderRequest) (domain.SubmitOrderRequest, error) {
	submission := domain.SubmitOrderRequest{ClientReferenceCode: req.GetClientReferenceCode()}

	payload := req.GetOrder()
	if payload == nil {
		return submission, nil
	}

	total, err := parseAmount("order.totalAmount", payload.GetTotalAmount())
	if err != nil {
		return domain.SubmitOrderRequest{}, err
	}

	items := make([]domain.OrderItemPayload, 0, len(payload.GetItems()))
	for i, item := range payload.GetItems() {
		if item == nil {
			return domain.SubmitOrderRequest{}, fmt.Errorf("%w: order.items[%d] is null", domain.ErrInvalidInput, i)
		}
		unitPrice, err := parseAmount(fmt.Sprintf("order.items[%d].unitPrice", i), item.GetUnitPrice())
		if err != nil {
			return domain.SubmitOrderRequest{}, err
		}
		totalPrice, err := parseAmount(fmt.Sprintf("order.items[%d].totalPrice", i), item.GetTotalPrice())
		if err != nil {
			return domain.SubmitOrderRequest{}, err
		}
		items = append(items, domain.OrderItemPayload{
			ItemID:     item.GetItemId(),
			UnitPrice:  unitPrice,
			Units:      item.GetUnits(),
			TotalPrice: totalPrice,
		})
	}

	submission.Order = &domain.OrderPayload{
		Description: payload.GetDescription(),
		ItemCount:   payload.GetItemCount(),
		TotalAmount: total,
		Items:       items,
	}
	return submission, nil
}

// parseAmount читает десятичную строку; пустое значение означает ноль.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is not a decimal number", domain.ErrInvalidInput, field)
	}
	return d, nil
}

func toProtoOrder(result domain.OrderResult) *ordersv1.Order {
	lines := make([]*ordersv1.OrderLine, 0, len(result.Items))
	for _, item := range result.Items {
		lines = append(lines, &ordersv1.OrderLine{
			Id:         item.ID,
			ItemId:     item.ItemID,
			UnitPrice:  item.UnitPrice.String(),
			Units:      item.Units,
			TotalPrice: item.TotalPrice.String(),
		})
	}

	return &ordersv1.Order{
		Id:                  result.ID,
		ClientReferenceCode: result.ClientReferenceCode,
		Description:         result.Description,
		ItemCount:           result.ItemCount,
		TotalAmount:         result.TotalAmount.String(),
		Status:              string(result.Status),
		Items:               lines,
	}
}
