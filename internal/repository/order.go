package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
	"github.com/okhld/orderdesk/internal/domain/order"
)

// ErrOrderNotFound is returned when a requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

const (
	insertOrderSQL = `INSERT INTO orders (id, invoice_code, created_at, user_name,
		customer_name, customer_phone, customer_email, customer_address,
		shipping_address, coupon_id, item_subtotal, shipping_charge, discount,
		total_amount, payment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity, is_bundle)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertPaymentSQL = `INSERT INTO payments (order_id, paid_amount, due_amount, status, type)
		VALUES ($1, $2, $3, $4, $5)`

	getOrderSQL = `SELECT id, invoice_code, created_at, user_name,
		customer_name, customer_phone, customer_email, customer_address,
		shipping_address, coupon_id, item_subtotal, shipping_charge, discount,
		total_amount, payment_type
		FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, invoice_code, created_at, user_name,
		customer_name, customer_phone, customer_email, customer_address,
		shipping_address, coupon_id, item_subtotal, shipping_charge, discount,
		total_amount, payment_type
		FROM orders ORDER BY created_at DESC`

	getOrderItemsSQL = `SELECT product_id, name, unit_price, quantity, is_bundle
		FROM order_items WHERE order_id = $1 ORDER BY position`

	getPaymentsSQL = `SELECT paid_amount, due_amount, status, type
		FROM payments WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items and payments live in their own tables; the structured shipping
// address is stored as a nullable JSONB column since it is read back only as
// a whole block.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a finalized order with its line items and payments in a
// single transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.FinalizedOrder) error {
	var shippingJSON []byte
	if o.ShippingAddr != nil {
		var err error
		shippingJSON, err = json.Marshal(o.ShippingAddr)
		if err != nil {
			return fmt.Errorf("marshaling shipping address: %w", err)
		}
	}

	var couponID *string
	if o.Coupon != nil {
		couponID = &o.Coupon.ID
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.InvoiceCode, o.CreatedAt, o.UserName,
		o.Customer.Name, o.Customer.Phone, o.Customer.Email, o.Customer.Address,
		shippingJSON, couponID, o.ItemSubtotal, o.ShippingCharge, o.Discount,
		o.TotalAmount, string(o.PaymentType),
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for i, li := range o.LineItems {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			o.ID, i, li.ProductID, li.Name, li.UnitPrice, li.Quantity, li.IsBundle,
		)
		if err != nil {
			return fmt.Errorf("creating order item %d for %q: %w", i, o.ID, err)
		}
	}

	for _, p := range o.Payments {
		_, err = tx.Exec(ctx, insertPaymentSQL,
			o.ID, p.PaidAmount, p.DueAmount, string(p.Status), string(p.Type),
		)
		if err != nil {
			return fmt.Errorf("creating payment for %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID loads a complete order snapshot: header row, line items, payments,
// and the referenced coupon rule when one was applied.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.FinalizedOrder, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	scanned, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o := scanned.order

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}
	o.LineItems, err = pgx.CollectRows(itemRows, scanLineItem)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}

	payRows, err := r.pool.Query(ctx, getPaymentsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting payments for order %q: %w", id, err)
	}
	o.Payments, err = pgx.CollectRows(payRows, scanPayment)
	if err != nil {
		return nil, fmt.Errorf("getting payments for order %q: %w", id, err)
	}

	if scanned.couponID != nil {
		o.Coupon, err = r.loadCoupon(ctx, *scanned.couponID)
		if err != nil {
			return nil, err
		}
	}

	return o, nil
}

// List returns order header rows only (totals and parties, no line items or
// payments) for admin tables; GetByID loads the full snapshot.
func (r *OrderRepository) List(ctx context.Context) ([]order.FinalizedOrder, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	scanned, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	out := make([]order.FinalizedOrder, len(scanned))
	for i, s := range scanned {
		out[i] = *s.order
	}
	return out, nil
}

// loadCoupon fetches the weakly referenced coupon rule. A dangling reference
// (coupon deleted after the order) degrades to a nil coupon, not an error.
func (r *OrderRepository) loadCoupon(ctx context.Context, id string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting coupon %q for order: %w", id, err)
	}
	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting coupon %q for order: %w", id, err)
	}
	return &rule, nil
}

type scannedOrder struct {
	order    *order.FinalizedOrder
	couponID *string
}

func scanOrder(row pgx.CollectableRow) (scannedOrder, error) {
	var (
		o            order.FinalizedOrder
		shippingJSON []byte
		couponID     *string
		paymentType  string
		subtotal     decimal.Decimal
		shipping     decimal.Decimal
		discount     decimal.Decimal
		total        decimal.Decimal
	)
	err := row.Scan(
		&o.ID, &o.InvoiceCode, &o.CreatedAt, &o.UserName,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.Email, &o.Customer.Address,
		&shippingJSON, &couponID, &subtotal, &shipping, &discount,
		&total, &paymentType,
	)
	if err != nil {
		return scannedOrder{}, err
	}

	if len(shippingJSON) > 0 {
		var addr order.ShippingAddress
		if err := json.Unmarshal(shippingJSON, &addr); err != nil {
			return scannedOrder{}, fmt.Errorf("unmarshaling shipping address: %w", err)
		}
		o.ShippingAddr = &addr
	}

	o.ItemSubtotal = subtotal
	o.ShippingCharge = shipping
	o.Discount = discount
	o.TotalAmount = total
	o.PaymentType = order.PaymentType(paymentType)

	return scannedOrder{order: &o, couponID: couponID}, nil
}

func scanLineItem(row pgx.CollectableRow) (order.LineItem, error) {
	var (
		li    order.LineItem
		price decimal.Decimal
	)
	err := row.Scan(&li.ProductID, &li.Name, &price, &li.Quantity, &li.IsBundle)
	li.UnitPrice = price
	return li, err
}

func scanPayment(row pgx.CollectableRow) (order.Payment, error) {
	var (
		p      order.Payment
		paid   decimal.Decimal
		due    decimal.Decimal
		status string
		typ    string
	)
	err := row.Scan(&paid, &due, &status, &typ)
	p.PaidAmount = paid
	p.DueAmount = due
	p.Status = order.PaymentStatus(status)
	p.Type = order.PaymentType(typ)
	return p, err
}
