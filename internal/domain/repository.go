package domain

import "context"

// OrderStore описывает требования к хранилищу заказов.
// Каждая операция атомарна относительно конкурентных вызовов.
type OrderStore interface {
	// Create сохраняет заказ вместе со всеми позициями одной транзакцией и
	// назначает идентификаторы. Возвращает ErrDuplicateOrder, если
	// client reference code уже занят, в том числе конкурентным Create.
	Create(ctx context.Context, order Order) (Order, error)
	// FindByID возвращает заказ с позициями; found=false, если его нет.
	FindByID(ctx context.Context, id string) (Order, bool, error)
	// FindByClientReferenceCode ищет заказ по клиентскому коду.
	FindByClientReferenceCode(ctx context.Context, code string) (Order, bool, error)
	// FindAll возвращает все заказы с позициями в порядке создания.
	FindAll(ctx context.Context) ([]Order, error)
}
