package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	pgUniqueViolation       = "23505"
	pgCheckViolation        = "23514"
	pgInvalidTextRepr       = "22P02"
	pgNumericOutOfRange     = "22003"
	clientReferenceCodeUniq = "orders_client_reference_code_key"
)

type orderStore struct {
	db         *sql.DB
	withOutbox bool
	now        func() time.Time
}

// OrderStoreOption настраивает PostgreSQL-хранилище заказов.
type OrderStoreOption func(*orderStore)

// WithOutbox включает запись события order.submitted в outbox_messages в транзакции создания заказа.
func WithOutbox() OrderStoreOption {
	return func(s *orderStore) {
		s.withOutbox = true
	}
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore.
func NewOrderStore(store *Store, opts ...OrderStoreOption) domain.OrderStore {
	s := &orderStore{
		db:  store.DB(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create вставляет заказ, позиции и (опционально) outbox-событие одной транзакцией.
func (s *orderStore) Create(ctx context.Context, order domain.Order) (created domain.Order, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order = order.Clone()
	order.ClientReferenceCode = strings.TrimSpace(order.ClientReferenceCode)
	// NUMERIC(19,4) молча округляет лишние знаки; такие суммы не принимаем.
	if err := checkMoneyScale(order); err != nil {
		return domain.Order{}, err
	}
	order.ID = uuid.NewString()
	if order.Status == "" {
		order.Status = domain.OrderStatusSubmitted
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	// Postgres хранит микросекунды; округляем, чтобы возвращаемое значение совпадало с прочитанным.
	order.CreatedAt = order.CreatedAt.UTC().Round(time.Microsecond)
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, storeFault("begin tx", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, client_reference_code, description, item_count, total_amount, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.ClientReferenceCode, order.Description, order.ItemCount,
		order.TotalAmount, string(order.Status), order.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, classifyWriteError("insert order", err)
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, item_id, unit_price, units, total_price, position
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID, order.ID, item.ItemID, item.UnitPrice, item.Units, item.TotalPrice, item.Position,
		); err != nil {
			return domain.Order{}, classifyWriteError("insert order item", err)
		}
	}

	if s.withOutbox {
		var msg domain.OutboxMessage
		msg, err = domain.NewOrderSubmittedMessage(order)
		if err != nil {
			return domain.Order{}, err
		}
		if err = insertOutboxMessage(ctx, tx, msg, order.CreatedAt); err != nil {
			return domain.Order{}, storeFault("insert outbox message", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, classifyWriteError("commit create order", err)
	}

	return order, nil
}

func (s *orderStore) FindByID(ctx context.Context, id string) (domain.Order, bool, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *orderStore) FindByClientReferenceCode(ctx context.Context, code string) (domain.Order, bool, error) {
	return s.findOne(ctx, `WHERE client_reference_code = $1`, strings.TrimSpace(code))
}

func (s *orderStore) findOne(ctx context.Context, where string, arg string) (domain.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order, err := scanOrder(s.db.QueryRowContext(ctx, selectOrderColumns+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, false, nil
		}
		return domain.Order{}, false, storeFault("select order", err)
	}

	items, err := loadItems(ctx, s.db, `WHERE order_id = $1`, order.ID)
	if err != nil {
		return domain.Order{}, false, err
	}
	order.Items = items[order.ID]

	return order, true, nil
}

// FindAll читает заказы и позиции из одного снимка (REPEATABLE READ), без N+1 запросов.
func (s *orderStore) FindAll(ctx context.Context) (orders []domain.Order, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, storeFault("begin read tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, selectOrderColumns+`ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, storeFault("list orders", err)
	}
	defer rows.Close()

	orders = make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, storeFault("scan order row", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFault("iterate order rows", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := loadItems(ctx, tx, "", "")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

const selectOrderColumns = `
	SELECT id, client_reference_code, description, item_count, total_amount, status, created_at
	FROM orders
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID, &order.ClientReferenceCode, &order.Description, &order.ItemCount,
		&order.TotalAmount, &status, &order.CreatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()
	return order, nil
}

// loadItems возвращает позиции, сгруппированные по order_id, в порядке отправки.
// Пустой where означает "все позиции".
func loadItems(ctx context.Context, q queryer, where, arg string) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, item_id, unit_price, units, total_price, position
		FROM order_items
		` + where + `
		ORDER BY order_id, position ASC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if where == "" {
		rows, err = q.QueryContext(ctx, query)
	} else {
		rows, err = q.QueryContext(ctx, query, arg)
	}
	if err != nil {
		return nil, storeFault("load order items", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ItemID, &item.UnitPrice,
			&item.Units, &item.TotalPrice, &item.Position,
		); err != nil {
			return nil, storeFault("scan order item", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFault("iterate order items", err)
	}

	return result, nil
}

// classifyWriteError переводит ошибки PostgreSQL в доменные.
func classifyWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == clientReferenceCodeUniq:
			return domain.ErrDuplicateOrder
		case pgErr.Code == pgCheckViolation, pgErr.Code == pgInvalidTextRepr:
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, op, pgErr.Message)
		}
	}
	return storeFault(op, err)
}

func checkMoneyScale(order domain.Order) error {
	if !domain.MoneyFits(order.TotalAmount) {
		return fmt.Errorf("%w: totalAmount %s: %w", domain.ErrInvalidInput, order.TotalAmount, domain.ErrAmountOutOfRange)
	}
	for i, item := range order.Items {
		if !domain.MoneyFits(item.UnitPrice) || !domain.MoneyFits(item.TotalPrice) {
			return fmt.Errorf("%w: items[%d]: %w", domain.ErrInvalidInput, i, domain.ErrAmountOutOfRange)
		}
	}
	return nil
}

func storeFault(op string, err error) error {
	return errors.Join(domain.ErrStoreUnavailable, fmt.Errorf("%s: %w", op, err))
}

var _ domain.OrderStore = (*orderStore)(nil)
