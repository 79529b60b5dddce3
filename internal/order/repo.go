// Package order is the order ledger: orders with their price snapshots and the
// status machine that governs them.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

var (
	ErrNotFound              = apperr.New(apperr.KindNotFound, "order_not_found", "order not found")
	ErrInvalidAddress        = apperr.New(apperr.KindValidation, "invalid_address", "address does not belong to the user")
	ErrDuplicateIdempotency  = apperr.New(apperr.KindConflict, "duplicate_idempotency_key", "an order with this idempotency key already exists")
	ErrMissingPaymentDetails = apperr.New(apperr.KindValidation, "missing_payment_method", "payment method is required")
)

// InvalidTransitionError is returned when the status machine refuses a change.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) ErrorKind() apperr.Kind { return apperr.KindConflict }
func (e *InvalidTransitionError) ErrorCode() string      { return "invalid_transition" }
func (e *InvalidTransitionError) Details() map[string]any {
	return map[string]any{"from": e.From, "to": e.To}
}

// TotalMismatchError is returned when the total priced inside the order
// transaction differs from the amount the caller already charged.
type TotalMismatchError struct {
	Expected, Actual money.Minor
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order total changed from %s to %s", e.Expected, e.Actual)
}

func (e *TotalMismatchError) ErrorKind() apperr.Kind { return apperr.KindConflict }
func (e *TotalMismatchError) ErrorCode() string      { return "total_changed" }
func (e *TotalMismatchError) Details() map[string]any {
	return map[string]any{"expected": e.Expected, "actual": e.Actual}
}

// CreateParams describes an order before pricing. Prices come from the catalog.
// A non-zero ExpectedTotal must match the repriced total or nothing is written.
type CreateParams struct {
	UserID               string
	AddressID            string
	Lines                []Line
	ShippingCost         money.Minor
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	Status               Status
	PaymentReference     string
	PaymentReferenceCode string
	Notes                string
	IdempotencyKey       string
	ExpectedTotal        money.Minor
}

type Repository interface {
	Create(ctx context.Context, p CreateParams) (*Order, error)
	GetByID(ctx context.Context, id, userID string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, userID string, next Status) (*Order, error)
	SetPaymentStatusByReference(ctx context.Context, reference string, st PaymentStatus) (bool, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// txPricer reads prices inside the order transaction, holding a share lock
// on the product rows until commit.
type txPricer struct{ tx pgx.Tx }

func (p txPricer) Prices(ctx context.Context, ids []int64) (map[int64]money.Minor, error) {
	rows, err := p.tx.Query(ctx, `
		SELECT id, price FROM products
		WHERE active AND id = ANY($1)
		ORDER BY id
		FOR SHARE
	`, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "lock prices")
	}
	defer rows.Close()

	out := make(map[int64]money.Minor, len(ids))
	for rows.Next() {
		var (
			id    int64
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, apperr.Persistence(err, "scan price")
		}
		out[id] = money.FromDecimal(price)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err, "iterate prices")
	}
	return out, nil
}

// Create prices and persists an order with all its items in one transaction.
// Nothing is written unless every step succeeds.
func (r *PGRepo) Create(ctx context.Context, p CreateParams) (*Order, error) {
	if p.PaymentMethod == "" {
		return nil, ErrMissingPaymentDetails
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentUnset
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperr.Persistence(err, "begin order tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := checkAddressOwner(ctx, tx, p.AddressID, p.UserID); err != nil {
		return nil, err
	}

	q, err := Reprice(ctx, txPricer{tx: tx}, p.Lines, p.ShippingCost)
	if err != nil {
		return nil, err
	}
	if p.ExpectedTotal != money.Zero && q.Total != p.ExpectedTotal {
		return nil, &TotalMismatchError{Expected: p.ExpectedTotal, Actual: q.Total}
	}

	addressID := p.AddressID
	o := &Order{
		ID:                   uuid.NewString(),
		UserID:               p.UserID,
		AddressID:            &addressID,
		Subtotal:             q.Subtotal,
		ShippingCost:         q.ShippingCost,
		Total:                q.Total,
		PaymentMethod:        p.PaymentMethod,
		PaymentStatus:        p.PaymentStatus,
		Status:               p.Status,
		PaymentReference:     p.PaymentReference,
		PaymentReferenceCode: p.PaymentReferenceCode,
		Notes:                p.Notes,
		IdempotencyKey:       p.IdempotencyKey,
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, address_id, subtotal, shipping_cost, total,
		                    payment_method, payment_status, status,
		                    payment_reference, payment_reference_code, notes, idempotency_key,
		                    created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, addressID, o.Subtotal.Decimal(), o.ShippingCost.Decimal(), o.Total.Decimal(),
		string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status),
		nullable(o.PaymentReference), nullable(o.PaymentReferenceCode), o.Notes, nullable(o.IdempotencyKey),
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		if isUniqueViolation(err, "orders_user_idempotency_key") {
			return nil, ErrDuplicateIdempotency
		}
		return nil, apperr.Persistence(err, "insert order")
	}

	o.Items = make([]Item, 0, len(q.Items))
	for _, it := range q.Items {
		it.ID = uuid.NewString()
		it.OrderID = o.ID
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price.Decimal()); err != nil {
			return nil, apperr.Persistence(err, "insert order item")
		}
		o.Items = append(o.Items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Persistence(err, "commit order")
	}
	return o, nil
}

func checkAddressOwner(ctx context.Context, tx pgx.Tx, addressID, userID string) error {
	if _, err := uuid.Parse(addressID); err != nil {
		return ErrInvalidAddress
	}
	var owned bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2)
	`, addressID, userID).Scan(&owned); err != nil {
		return apperr.Persistence(err, "check address owner")
	}
	if !owned {
		return ErrInvalidAddress
	}
	return nil
}

const orderColumns = `
	id, user_id, address_id, subtotal, shipping_cost, total,
	payment_method, payment_status, status,
	COALESCE(payment_reference, ''), COALESCE(payment_reference_code, ''),
	notes, COALESCE(idempotency_key, ''), created_at, updated_at`

func scanOrder(row pgx.CollectableRow) (Order, error) {
	var (
		o                         Order
		subtotal, shipping, total decimal.Decimal
		method, payStatus, status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &subtotal, &shipping, &total,
		&method, &payStatus, &status,
		&o.PaymentReference, &o.PaymentReferenceCode,
		&o.Notes, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	o.Subtotal = money.FromDecimal(subtotal)
	o.ShippingCost = money.FromDecimal(shipping)
	o.Total = money.FromDecimal(total)
	o.PaymentMethod = PaymentMethod(method)
	o.PaymentStatus = PaymentStatus(payStatus)
	o.Status = Status(status)
	return o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id, userID string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND idempotency_key = $2`, userID, key)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) getOne(ctx context.Context, sql string, args ...any) (*Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Persistence(err, "query order")
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err, "scan order")
	}
	return &o, nil
}

func (r *PGRepo) items(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1
		ORDER BY product_id, id
	`, orderID)
	if err != nil {
		return nil, apperr.Persistence(err, "query order items")
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var (
			it    Item
			price decimal.Decimal
		)
		if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price); err != nil {
			return Item{}, err
		}
		it.Price = money.FromDecimal(price)
		return it, nil
	})
	if err != nil {
		return nil, apperr.Persistence(err, "scan order items")
	}
	return items, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apperr.Persistence(err, "list orders")
	}
	out, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, apperr.Persistence(err, "scan orders")
	}
	return out, nil
}

// UpdateStatus applies next only if the current status allows it. The check
// and the write are a single conditional UPDATE.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, userID string, next Status) (*Order, error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = ANY($4)
		RETURNING `+orderColumns, id, userID, string(next), predecessors(next))
	if err != nil {
		return nil, apperr.Persistence(err, "update order status")
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Persistence(err, "scan order")
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 AND user_id = $2`, id, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err, "read order status")
	}
	return nil, &InvalidTransitionError{From: Status(current), To: next}
}

// SetPaymentStatusByReference updates the order paid with the given charge id.
// It reports false when no order carries that reference. A refunded order
// only accepts refunded again; the call still reports true for it.
func (r *PGRepo) SetPaymentStatusByReference(ctx context.Context, reference string, st PaymentStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2, updated_at = NOW()
		WHERE payment_reference = $1
		  AND (payment_status <> 'refunded' OR $2 = 'refunded')
	`, reference, string(st))
	if err != nil {
		return false, apperr.Persistence(err, "update payment status")
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE payment_reference = $1)
	`, reference).Scan(&exists); err != nil {
		return false, apperr.Persistence(err, "lookup payment reference")
	}
	return exists, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
