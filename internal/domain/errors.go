package domain

import "errors"

var (
	// ErrInvalidInput — некорректный или отсутствующий идентификатор/поле запроса.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateOrder — заказ с таким client reference code уже существует.
	ErrDuplicateOrder = errors.New("order with this client reference code already exists")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStoreUnavailable — хранилище недоступно или вернуло неожиданную ошибку.
	ErrStoreUnavailable = errors.New("order store unavailable")
	// ErrLockTimeout — не удалось дождаться блокировки по client reference code.
	ErrLockTimeout = errors.New("submission lock wait timed out")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// Ошибки валидации; все оборачиваются в ErrInvalidInput на уровне сервиса.
var (
	ErrClientReferenceCodeRequired = errors.New("clientReferenceCode is required")
	ErrClientReferenceCodeTooLong  = errors.New("clientReferenceCode is too long")
	ErrDescriptionTooLong          = errors.New("description is too long")
	ErrOrderPayloadRequired        = errors.New("order payload is required")
	ErrItemsRequired               = errors.New("order must contain at least one item")
	ErrItemCountNegative           = errors.New("itemCount must be non-negative")
	ErrTotalAmountNegative         = errors.New("totalAmount must be non-negative")
	ErrStatusInvalid               = errors.New("order status is not supported")
	ErrItemIDRequired              = errors.New("item itemId is required")
	ErrItemIDMalformed             = errors.New("item itemId must be a UUID")
	ErrItemUnitsInvalid            = errors.New("item units must be greater than zero")
	ErrItemPriceInvalid            = errors.New("item unitPrice must be non-negative")
	ErrItemTotalInvalid            = errors.New("item totalPrice must be non-negative")
	ErrAmountOutOfRange            = errors.New("amount must have at most 15 integer and 4 fractional digits")
	ErrOrderIDRequired             = errors.New("order id is required")
	ErrOrderIDMalformed            = errors.New("order id must be a UUID")
)

// Kind классифицирует исход операции сервиса.
type Kind string

const (
	KindOK             Kind = "ok"
	KindInvalidInput   Kind = "invalid_input"
	KindDuplicateOrder Kind = "duplicate_order"
	KindOrderNotFound  Kind = "order_not_found"
	KindUnavailable    Kind = "unavailable"
	KindInternal       Kind = "internal"
)

// KindOf сводит ошибку к одному из видов исхода.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicateOrder):
		return KindDuplicateOrder
	case errors.Is(err, ErrOrderNotFound):
		return KindOrderNotFound
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrLockTimeout):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// ClientCaused сообщает, вызвана ли ошибка клиентом (4xx) или сервером (5xx).
func (k Kind) ClientCaused() bool {
	switch k {
	case KindInvalidInput, KindDuplicateOrder, KindOrderNotFound:
		return true
	default:
		return false
	}
}

// IsDuplicate проверяет, является ли ошибка конфликтом client reference code.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateOrder)
}
