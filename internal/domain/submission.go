package domain

import "github.com/shopspring/decimal"

// SubmitOrderRequest — запрос на отправку заказа.
type SubmitOrderRequest struct {
	ClientReferenceCode string        `validate:"required,max=64"`
	Order               *OrderPayload `validate:"required"`
}

// OrderPayload описывает заказ в запросе.
type OrderPayload struct {
	Description string             `validate:"max=1024"`
	ItemCount   int32              `validate:"gte=0"`
	TotalAmount decimal.Decimal    `validate:"nonneg,money"`
	Items       []OrderItemPayload `validate:"required,min=1,dive"`
}

// OrderItemPayload описывает позицию заказа в запросе.
type OrderItemPayload struct {
	ItemID     string          `validate:"required"`
	UnitPrice  decimal.Decimal `validate:"nonneg,money"`
	Units      int32           `validate:"gt=0"`
	TotalPrice decimal.Decimal `validate:"nonneg,money"`
}

// OrderResult — внешнее представление сохранённого заказа.
type OrderResult struct {
	ID                  string
	ClientReferenceCode string
	Description         string
	ItemCount           int32
	TotalAmount         decimal.Decimal
	Status              OrderStatus
	Items               []OrderItemResult
}

// OrderItemResult — внешнее представление позиции заказа.
type OrderItemResult struct {
	ID         string
	ItemID     string
	UnitPrice  decimal.Decimal
	Units      int32
	TotalPrice decimal.Decimal
}
