package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported coupon discount strategies.
type Kind string

const (
	// KindPercent applies a percentage-based discount to the item subtotal.
	KindPercent Kind = "percent"
	// KindFlat applies a fixed monetary discount capped at the item subtotal.
	KindFlat Kind = "flat"
)

// ErrNotFound is returned when a coupon code or id does not resolve to a rule.
var ErrNotFound = errors.New("coupon not found")

// Rule defines a coupon's discount behaviour and eligibility constraints.
//
// MinPurchase is the minimum item subtotal required for the coupon to apply;
// zero means no minimum. A nil or empty ItemIDs set means the coupon is
// global; otherwise it applies only when at least one line item's product
// appears in the set.
type Rule struct {
	ID          string
	Code        string
	Kind        Kind
	Amount      decimal.Decimal
	MinPurchase decimal.Decimal
	ItemIDs     []string
	Description string
	Active      bool
}

// Scoped reports whether the rule is restricted to a specific item set.
func (r *Rule) Scoped() bool {
	return len(r.ItemIDs) > 0
}

// Item represents a line item considered during discount resolution.
type Item struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

// Repository provides lookup and administration of coupon rules.
type Repository interface {
	List(ctx context.Context) ([]Rule, error)
	GetByID(ctx context.Context, id string) (*Rule, error)
	FindByCode(ctx context.Context, code string) (*Rule, error)
	Create(ctx context.Context, r *Rule) error
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id string) error
}
