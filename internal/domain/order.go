package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusSubmitted — заказ принят и сохранён вместе с позициями.
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
)

const (
	// MaxClientReferenceCodeLen ограничивает длину клиентского кода в символах (размер колонки в БД).
	MaxClientReferenceCodeLen = 64
	// MaxDescriptionLen ограничивает длину описания заказа в символах.
	MaxDescriptionLen = 1024

	// MoneyScale и MoneyIntegerDigits соответствуют колонкам NUMERIC(19,4).
	MoneyScale         = 4
	MoneyIntegerDigits = 15
)

var moneyLimit = decimal.New(1, MoneyIntegerDigits)

// MoneyFits сообщает, хранится ли сумма без округления: не больше MoneyScale знаков
// после запятой и не больше MoneyIntegerDigits знаков целой части.
func MoneyFits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale)) && d.Abs().LessThan(moneyLimit)
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusSubmitted:
		return true
	default:
		return false
	}
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID позиции назначается хранилищем при создании.
	ID string
	// OrderID — обратная ссылка на заказ, только для поиска.
	OrderID string
	// ItemID — идентификатор товара в каталоге (UUID), здесь не проверяется.
	ItemID     string
	UnitPrice  decimal.Decimal
	Units      int32
	TotalPrice decimal.Decimal
	// Position сохраняет порядок позиций из запроса.
	Position int
}

// Order агрегирует заказ и его позиции.
type Order struct {
	ID                  string
	ClientReferenceCode string
	Description         string
	ItemCount           int32
	TotalAmount         decimal.Decimal
	Status              OrderStatus
	Items               []OrderItem
	CreatedAt           time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
// Суммы не пересчитываются: значения клиента принимаются как есть.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	code := strings.TrimSpace(o.ClientReferenceCode)
	if code == "" {
		errs = append(errs, ErrClientReferenceCodeRequired)
	} else if utf8.RuneCountInString(code) > MaxClientReferenceCodeLen {
		errs = append(errs, ErrClientReferenceCodeTooLong)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.ItemCount < 0 {
		errs = append(errs, ErrItemCountNegative)
	}
	if o.TotalAmount.IsNegative() {
		errs = append(errs, ErrTotalAmountNegative)
	}
	if !MoneyFits(o.TotalAmount) {
		errs = append(errs, ErrAmountOutOfRange)
	}
	if o.Status != "" && !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	for _, item := range o.Items {
		if item.ItemID == "" {
			errs = append(errs, ErrItemIDRequired)
		}
		if item.Units <= 0 {
			errs = append(errs, ErrItemUnitsInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.TotalPrice.IsNegative() {
			errs = append(errs, ErrItemTotalInvalid)
		}
		if !MoneyFits(item.UnitPrice) || !MoneyFits(item.TotalPrice) {
			errs = append(errs, ErrAmountOutOfRange)
		}
	}

	return errs
}

// Clone возвращает глубокую копию заказа, чтобы хранилища не делили слайс позиций с вызывающим кодом.
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}
