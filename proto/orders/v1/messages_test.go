package ordersv1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderGetters(t *testing.T) {
	order := &Order{
		Id:                  "order-1",
		ClientReferenceCode: "ORDER-0",
		Description:         "office chair",
		ItemCount:           2,
		TotalAmount:         "20.00",
		Status:              "SUBMITTED",
		Items: []*OrderLine{
			{Id: "line-1", ItemId: "item-1", UnitPrice: "10.00", Units: 2, TotalPrice: "20.00"},
		},
	}

	require.Equal(t, "order-1", order.GetId())
	require.Equal(t, "ORDER-0", order.GetClientReferenceCode())
	require.Equal(t, "office chair", order.GetDescription())
	require.EqualValues(t, 2, order.GetItemCount())
	require.Equal(t, "20.00", order.GetTotalAmount())
	require.Equal(t, "SUBMITTED", order.GetStatus())

	line := order.GetItems()[0]
	require.Equal(t, "line-1", line.GetId())
	require.Equal(t, "item-1", line.GetItemId())
	require.Equal(t, "10.00", line.GetUnitPrice())
	require.EqualValues(t, 2, line.GetUnits())
	require.Equal(t, "20.00", line.GetTotalPrice())
}

func TestGettersOnNilMessages(t *testing.T) {
	var order *Order
	require.Empty(t, order.GetId())
	require.Empty(t, order.GetClientReferenceCode())
	require.Empty(t, order.GetDescription())
	require.Zero(t, order.GetItemCount())
	require.Empty(t, order.GetTotalAmount())
	require.Empty(t, order.GetStatus())
	require.Nil(t, order.GetItems())

	var line *OrderLine
	require.Empty(t, line.GetId())
	require.Empty(t, line.GetItemId())
	require.Empty(t, line.GetUnitPrice())
	require.Zero(t, line.GetUnits())
	require.Empty(t, line.GetTotalPrice())

	var resp *GetOrderResponse
	require.Empty(t, resp.GetOrder().GetClientReferenceCode())

	var item *OrderItem
	require.Empty(t, item.GetItemId())
	require.Zero(t, item.GetUnits())

	var payload *OrderPayload
	require.Nil(t, payload.GetItems())
	require.Empty(t, payload.GetTotalAmount())
}
