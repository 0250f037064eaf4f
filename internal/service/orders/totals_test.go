package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func TestTotalsMismatches(t *testing.T) {
	consistent := &domain.OrderPayload{
		ItemCount:   3,
		TotalAmount: decimal.RequireFromString("25.50"),
		Items: []domain.OrderItemPayload{
			{UnitPrice: decimal.NewFromInt(10), Units: 2, TotalPrice: decimal.NewFromInt(20)},
			{UnitPrice: decimal.RequireFromString("5.5"), Units: 1, TotalPrice: decimal.RequireFromString("5.50")},
		},
	}
	require.Empty(t, totalsMismatches(consistent))

	inconsistent := &domain.OrderPayload{
		ItemCount:   7,
		TotalAmount: decimal.NewFromInt(100),
		Items: []domain.OrderItemPayload{
			{UnitPrice: decimal.NewFromInt(10), Units: 2, TotalPrice: decimal.NewFromInt(15)},
		},
	}
	require.Equal(t,
		[]string{mismatchItemTotalPrice, mismatchTotalAmount, mismatchItemCount},
		totalsMismatches(inconsistent),
	)

	require.Nil(t, totalsMismatches(nil))
}
