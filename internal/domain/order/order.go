package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
)

// LineItem is one product entry in an order with quantity and unit price.
// The name and price are captured at the time the item is added so later
// catalog edits do not change historical orders.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	IsBundle  bool
}

// Subtotal returns unit price multiplied by quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// PaymentStatus enumerates the lifecycle states of a payment record.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentType enumerates the supported payment methods.
type PaymentType string

const (
	PaymentCash   PaymentType = "cash_on_delivery"
	PaymentCard   PaymentType = "card"
	PaymentOnline PaymentType = "online"
)

// Payment is a single payment record against an order. Orders may carry
// multiple payments (partial payments); invoices aggregate paid and due
// amounts across all of them.
type Payment struct {
	PaidAmount decimal.Decimal
	DueAmount  decimal.Decimal
	Status     PaymentStatus
	Type       PaymentType
}

// CustomerInfo is the billing identity captured on a finalized order.
// Fields may be empty for guest orders with sparse input; invoice rendering
// resolves them through fallback chains.
type CustomerInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// ShippingAddress is a structured delivery address. Orders without one ship
// to the billing address.
type ShippingAddress struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	Zip       string
	Phone     string
}

// FinalizedOrder is a server-confirmed, immutable order snapshot. It is the
// input to invoice generation and is distinct from the mutable Draft.
type FinalizedOrder struct {
	ID             string
	InvoiceCode    string
	CreatedAt      time.Time
	UserName       string
	Customer       CustomerInfo
	ShippingAddr   *ShippingAddress
	LineItems      []LineItem
	Payments       []Payment
	Coupon         *coupon.Rule
	ItemSubtotal   decimal.Decimal
	ShippingCharge decimal.Decimal
	Discount       decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentType    PaymentType
}

// PaidTotal returns the sum of paid amounts across all payments.
func (o *FinalizedOrder) PaidTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments {
		sum = sum.Add(p.PaidAmount)
	}
	return sum
}

// DueTotal returns the sum of due amounts across all payments.
func (o *FinalizedOrder) DueTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments {
		sum = sum.Add(p.DueAmount)
	}
	return sum
}

// Repository defines persistence operations for finalized orders.
type Repository interface {
	Create(ctx context.Context, o *FinalizedOrder) error
	GetByID(ctx context.Context, id string) (*FinalizedOrder, error)
	List(ctx context.Context) ([]FinalizedOrder, error)
}
