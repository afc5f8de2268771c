package coupon

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Resolve calculates the discount a rule yields against the given line items.
//
// It returns zero when the rule is nil, when the item subtotal does not meet
// the rule's minimum purchase, or when the rule is scoped to an item set that
// excludes every current line item. Otherwise a percent rule discounts the
// full item subtotal and a flat rule is capped at the subtotal, so a discount
// alone can never push a total negative.
func Resolve(rule *Rule, items []Item) decimal.Decimal {
	if rule == nil {
		return decimal.Zero
	}

	subtotal := Subtotal(items)

	if rule.MinPurchase.IsPositive() && subtotal.LessThan(rule.MinPurchase) {
		return decimal.Zero
	}
	if rule.Scoped() && !anyInScope(rule, items) {
		return decimal.Zero
	}

	switch rule.Kind {
	case KindPercent:
		return subtotal.Mul(rule.Amount).Div(hundred).Round(2)
	case KindFlat:
		return decimal.Min(rule.Amount, subtotal).Round(2)
	default:
		return decimal.Zero
	}
}

// Subtotal returns the sum of price * quantity across all items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// anyInScope reports whether at least one item's product is in the rule's set.
func anyInScope(rule *Rule, items []Item) bool {
	for _, id := range rule.ItemIDs {
		for _, item := range items {
			if item.ProductID == id {
				return true
			}
		}
	}
	return false
}
