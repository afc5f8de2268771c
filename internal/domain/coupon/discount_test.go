package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(id string, price string, qty int) Item {
	return Item{ProductID: id, Price: decimal.RequireFromString(price), Quantity: qty}
}

func percentRule(amount string) *Rule {
	return &Rule{ID: "c1", Code: "PCT", Kind: KindPercent, Amount: decimal.RequireFromString(amount), Active: true}
}

func flatRule(amount string) *Rule {
	return &Rule{ID: "c2", Code: "FLAT", Kind: KindFlat, Amount: decimal.RequireFromString(amount), Active: true}
}

func TestResolve_NilRule(t *testing.T) {
	got := Resolve(nil, []Item{item("p1", "10.00", 2)})
	assert.True(t, got.IsZero())
}

func TestResolve_Percent(t *testing.T) {
	items := []Item{
		item("p1", "10.00", 2),
		item("p2", "5.50", 1),
	}

	// 18% of 25.50 = 4.59
	got := Resolve(percentRule("18"), items)
	assert.True(t, decimal.RequireFromString("4.59").Equal(got), "got %s", got)
}

func TestResolve_PercentRounding(t *testing.T) {
	// 10% of 0.05 = 0.005, rounds to 0.01 (half away from zero).
	got := Resolve(percentRule("10"), []Item{item("p1", "0.05", 1)})
	assert.True(t, decimal.RequireFromString("0.01").Equal(got), "got %s", got)
}

func TestResolve_FlatCappedAtSubtotal(t *testing.T) {
	items := []Item{item("p1", "10.00", 1)}

	got := Resolve(flatRule("25"), items)
	assert.True(t, decimal.RequireFromString("10.00").Equal(got), "got %s", got)

	got = Resolve(flatRule("4"), items)
	assert.True(t, decimal.RequireFromString("4.00").Equal(got), "got %s", got)
}

func TestResolve_MinPurchase(t *testing.T) {
	rule := percentRule("10")
	rule.MinPurchase = decimal.RequireFromString("50.00")

	// Below the threshold: no discount.
	got := Resolve(rule, []Item{item("p1", "10.00", 4)})
	assert.True(t, got.IsZero())

	// At the threshold: discount applies.
	got = Resolve(rule, []Item{item("p1", "10.00", 5)})
	assert.True(t, decimal.RequireFromString("5.00").Equal(got), "got %s", got)
}

func TestResolve_ScopedRule(t *testing.T) {
	rule := percentRule("20")
	rule.ItemIDs = []string{"p9"}

	items := []Item{item("p1", "10.00", 1), item("p2", "30.00", 1)}

	// No line item in scope: no discount.
	got := Resolve(rule, items)
	assert.True(t, got.IsZero())

	// One item in scope: percent applies to the full subtotal.
	items = append(items, item("p9", "5.00", 1))
	got = Resolve(rule, items)
	assert.True(t, decimal.RequireFromString("9.00").Equal(got), "got %s", got)
}

func TestResolve_EmptyCart(t *testing.T) {
	got := Resolve(flatRule("5"), nil)
	assert.True(t, got.IsZero())
}

func TestResolve_UnknownKind(t *testing.T) {
	rule := &Rule{ID: "c3", Code: "ODD", Kind: Kind("free_lowest"), Amount: decimal.NewFromInt(1), Active: true}
	got := Resolve(rule, []Item{item("p1", "10.00", 1)})
	assert.True(t, got.IsZero())
}

func TestSubtotal(t *testing.T) {
	items := []Item{
		item("p1", "2.50", 3),
		item("p2", "1.25", 2),
	}
	assert.True(t, decimal.RequireFromString("10.00").Equal(Subtotal(items)))
	assert.True(t, Subtotal(nil).IsZero())
}
