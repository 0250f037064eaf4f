// Package ordersv1 описывает gRPC API orders.v1.OrderService.
// Сообщения передаются кодеком JSON (content-subtype "json"); денежные поля передаются десятичными строками.
package ordersv1

// OrderItem описывает позицию заказа в запросе на отправку.
type OrderItem struct {
	ItemId     string `json:"itemId"`
	UnitPrice  string `json:"unitPrice"`
	Units      int32  `json:"units"`
	TotalPrice string `json:"totalPrice"`
}

func (x *OrderItem) GetItemId() string {
	if x != nil {
		return x.ItemId
	}
	return ""
}

func (x *OrderItem) GetUnitPrice() string {
	if x != nil {
		return x.UnitPrice
	}
	return ""
}

func (x *OrderItem) GetUnits() int32 {
	if x != nil {
		return x.Units
	}
	return 0
}

func (x *OrderItem) GetTotalPrice() string {
	if x != nil {
		return x.TotalPrice
	}
	return ""
}

// OrderPayload содержит заказ из запроса на отправку.
type OrderPayload struct {
	Description string       `json:"description,omitempty"`
	ItemCount   int32        `json:"itemCount"`
	TotalAmount string       `json:"totalAmount"`
	Items       []*OrderItem `json:"items"`
}

func (x *OrderPayload) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *OrderPayload) GetItemCount() int32 {
	if x != nil {
		return x.ItemCount
	}
	return 0
}

func (x *OrderPayload) GetTotalAmount() string {
	if x != nil {
		return x.TotalAmount
	}
	return ""
}

func (x *OrderPayload) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

type SubmitOrderRequest struct {
	ClientReferenceCode string        `json:"clientReferenceCode"`
	Order               *OrderPayload `json:"order"`
}

func (x *SubmitOrderRequest) GetClientReferenceCode() string {
	if x != nil {
		return x.ClientReferenceCode
	}
	return ""
}

func (x *SubmitOrderRequest) GetOrder() *OrderPayload {
	if x != nil {
		return x.Order
	}
	return nil
}

// OrderLine описывает сохранённую позицию заказа.
type OrderLine struct {
	Id         string `json:"id"`
	ItemId     string `json:"itemId"`
	UnitPrice  string `json:"unitPrice"`
	Units      int32  `json:"units"`
	TotalPrice string `json:"totalPrice"`
}

func (x *OrderLine) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *OrderLine) GetItemId() string {
	if x != nil {
		return x.ItemId
	}
	return ""
}

func (x *OrderLine) GetUnitPrice() string {
	if x != nil {
		return x.UnitPrice
	}
	return ""
}

func (x *OrderLine) GetUnits() int32 {
	if x != nil {
		return x.Units
	}
	return 0
}

func (x *OrderLine) GetTotalPrice() string {
	if x != nil {
		return x.TotalPrice
	}
	return ""
}

// Order — сохранённый заказ.
type Order struct {
	Id                  string       `json:"id"`
	ClientReferenceCode string       `json:"clientReferenceCode"`
	Description         string       `json:"description"`
	ItemCount           int32        `json:"itemCount"`
	TotalAmount         string       `json:"totalAmount"`
	Status              string       `json:"status"`
	Items               []*OrderLine `json:"items"`
}

func (x *Order) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Order) GetClientReferenceCode() string {
	if x != nil {
		return x.ClientReferenceCode
	}
	return ""
}

func (x *Order) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *Order) GetItemCount() int32 {
	if x != nil {
		return x.ItemCount
	}
	return 0
}

func (x *Order) GetTotalAmount() string {
	if x != nil {
		return x.TotalAmount
	}
	return ""
}

func (x *Order) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *Order) GetItems() []*OrderLine {
	if x != nil {
		return x.Items
	}
	return nil
}

type SubmitOrderResponse struct {
	Order *Order `json:"order"`
}

func (x *SubmitOrderResponse) GetOrder() *Order {
	if x != nil {
		return x.Order
	}
	return nil
}

type GetOrderRequest struct {
	OrderId string `json:"orderId"`
}

func (x *GetOrderRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

func (x *GetOrderResponse) GetOrder() *Order {
	if x != nil {
		return x.Order
	}
	return nil
}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

func (x *ListOrdersResponse) GetOrders() []*Order {
	if x != nil {
		return x.Orders
	}
	return nil
}
