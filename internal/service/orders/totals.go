package orders

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Поля, по которым считаются расхождения итогов.
const (
	mismatchItemTotalPrice = "item_total_price"
	mismatchTotalAmount    = "total_amount"
	mismatchItemCount      = "item_count"
)

// totalsMismatches сравнивает итоги клиента с позициями. Итоги не отклоняются и не пересчитываются.
func totalsMismatches(payload *domain.OrderPayload) []string {
	if payload == nil {
		return nil
	}

	var (
		fields   []string
		sum      = decimal.Zero
		units    int64
		itemDiff bool
	)
	for _, item := range payload.Items {
		expected := item.UnitPrice.Mul(decimal.NewFromInt32(item.Units))
		if !expected.Equal(item.TotalPrice) {
			itemDiff = true
		}
		sum = sum.Add(item.TotalPrice)
		units += int64(item.Units)
	}

	if itemDiff {
		fields = append(fields, mismatchItemTotalPrice)
	}
	if !sum.Equal(payload.TotalAmount) {
		fields = append(fields, mismatchTotalAmount)
	}
	if units != int64(payload.ItemCount) {
		fields = append(fields, mismatchItemCount)
	}
	return fields
}
