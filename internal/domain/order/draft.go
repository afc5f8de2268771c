package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
	"github.com/okhld/orderdesk/internal/domain/product"
)

// ErrStaleRevision is returned by ApplyAt when the draft has been mutated
// since the revision the caller observed.
var ErrStaleRevision = errors.New("draft revision is stale")

// Draft is an in-progress order with derived totals kept consistent across
// mutations. Every mutating operation recomputes the subtotal, discount, and
// total before returning, so a caller never observes a partially updated
// draft. The derived fields have no independent mutation path.
//
// A Draft has exactly one writer and is not safe for concurrent use.
type Draft struct {
	items          []LineItem
	rule           *coupon.Rule
	shippingCharge decimal.Decimal
	paymentType    PaymentType

	itemSubtotal decimal.Decimal
	discount     decimal.Decimal
	total        decimal.Decimal

	rev uint64
}

// NewDraft returns an empty draft with all totals at zero.
func NewDraft() *Draft {
	return &Draft{}
}

// AddLineItem adds qty units of the product to the draft. When a line item
// for the same product already exists its quantity is incremented instead of
// appending a duplicate row. A qty below 1 is treated as 1.
func (d *Draft) AddLineItem(p product.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range d.items {
		if d.items[i].ProductID == p.ID {
			d.items[i].Quantity += qty
			d.recompute()
			return
		}
	}
	d.items = append(d.items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		IsBundle:  p.IsBundle,
	})
	d.recompute()
}

// UpdateQuantity replaces the quantity of the matching line item. Quantities
// below 1 are rejected and leave the draft unchanged, as does an unknown
// product id.
func (d *Draft) UpdateQuantity(productID string, qty int) {
	if qty < 1 {
		return
	}
	for i := range d.items {
		if d.items[i].ProductID == productID {
			d.items[i].Quantity = qty
			d.recompute()
			return
		}
	}
}

// RemoveLineItem deletes the matching line item. Removing the last item is
// permitted and leaves the subtotal at zero. Unknown ids are a no-op.
func (d *Draft) RemoveLineItem(productID string) {
	for i := range d.items {
		if d.items[i].ProductID == productID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			d.recompute()
			return
		}
	}
}

// SetShippingCharge replaces the delivery charge. The value is taken as
// given; validation belongs to the caller.
func (d *Draft) SetShippingCharge(v decimal.Decimal) {
	d.shippingCharge = v
	d.recompute()
}

// ApplyCoupon stores the coupon reference; passing nil clears it. Discount
// resolution happens at recompute time, not here, so a coupon applied before
// the cart meets its minimum purchase starts discounting once it does.
func (d *Draft) ApplyCoupon(rule *coupon.Rule) {
	d.rule = rule
	d.recompute()
}

// SetPaymentType records the selected payment method. It does not affect
// derived totals.
func (d *Draft) SetPaymentType(t PaymentType) {
	d.paymentType = t
}

// Revision returns a token identifying the current draft state. It increases
// on every mutation.
func (d *Draft) Revision() uint64 {
	return d.rev
}

// ApplyAt runs fn against the draft only if rev still identifies the current
// state. It guards against out-of-order async responses overwriting newer
// local edits: callers snapshot Revision before starting a fetch and pass it
// back with the result.
func (d *Draft) ApplyAt(rev uint64, fn func(*Draft)) error {
	if rev != d.rev {
		return ErrStaleRevision
	}
	fn(d)
	return nil
}

// recompute derives the subtotal, discount, and total from current state.
// The total is clamped at zero when the discount exceeds subtotal plus
// shipping.
func (d *Draft) recompute() {
	items := make([]coupon.Item, len(d.items))
	subtotal := decimal.Zero
	for i, li := range d.items {
		items[i] = coupon.Item{
			ProductID: li.ProductID,
			Price:     li.UnitPrice,
			Quantity:  li.Quantity,
		}
		subtotal = subtotal.Add(li.Subtotal())
	}

	d.itemSubtotal = subtotal
	d.discount = coupon.Resolve(d.rule, items)

	total := subtotal.Add(d.shippingCharge).Sub(d.discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	d.total = total

	d.rev++
}

// LineItems returns a copy of the current line items.
func (d *Draft) LineItems() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Coupon returns the applied coupon rule, or nil.
func (d *Draft) Coupon() *coupon.Rule { return d.rule }

// ItemSubtotal returns the derived sum of unit price times quantity.
func (d *Draft) ItemSubtotal() decimal.Decimal { return d.itemSubtotal }

// Discount returns the derived discount amount.
func (d *Draft) Discount() decimal.Decimal { return d.discount }

// ShippingCharge returns the current delivery charge.
func (d *Draft) ShippingCharge() decimal.Decimal { return d.shippingCharge }

// PaymentType returns the selected payment method.
func (d *Draft) PaymentType() PaymentType { return d.paymentType }

// Total returns the derived grand total.
func (d *Draft) Total() decimal.Decimal { return d.total }
