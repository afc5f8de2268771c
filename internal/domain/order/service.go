package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
	"github.com/okhld/orderdesk/internal/domain/customer"
	"github.com/okhld/orderdesk/internal/domain/product"
)

// Sentinel errors for order placement validation.
var (
	ErrEmptyItems         = errors.New("items required")
	ErrNoCustomer         = errors.New("guest info or customer id required")
	ErrTwoCustomers       = errors.New("guest info and customer id are mutually exclusive")
	ErrGuestIncomplete    = errors.New("guest name and phone required")
	ErrUnknownCoupon      = errors.New("invalid coupon code")
	ErrAddressMismatch    = errors.New("shipping address does not belong to customer")
	ErrUnknownPaymentType = errors.New("unknown payment type")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ItemRequest is one requested line item.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// GuestInfo identifies a customer who has no account.
type GuestInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// PlaceOrderRequest holds the input for placing an order. Exactly one of
// Guest or CustomerID must be set; the API layer builds this from the
// discriminated guest/registered request types.
type PlaceOrderRequest struct {
	Items             []ItemRequest
	CouponCode        string
	ShippingCharge    decimal.Decimal
	PaymentType       PaymentType
	Guest             *GuestInfo
	CustomerID        string
	ShippingAddressID string
}

// Service encapsulates order placement business logic. Client-computed totals
// are never trusted; the service rebuilds pricing from the catalog.
type Service struct {
	products  product.Repository
	coupons   coupon.Repository
	customers customer.Repository
	orders    Repository
	now       func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	products product.Repository,
	coupons coupon.Repository,
	customers customer.Repository,
	orders Repository,
) *Service {
	return &Service{
		products:  products,
		coupons:   coupons,
		customers: customers,
		orders:    orders,
		now:       time.Now,
	}
}

// PlaceOrder validates the request, reprices it from the catalog through a
// Draft, resolves customer and shipping data, persists the finalized order
// with an initial payment record, and returns the immutable snapshot.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*FinalizedOrder, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validateParty(req); err != nil {
		return nil, err
	}
	if !validPaymentType(req.PaymentType) {
		return nil, ErrUnknownPaymentType
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	draft := NewDraft()
	for _, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		draft.AddLineItem(p, item.Quantity)
	}
	draft.SetShippingCharge(req.ShippingCharge)
	draft.SetPaymentType(req.PaymentType)

	var rule *coupon.Rule
	if req.CouponCode != "" {
		rule, err = s.coupons.FindByCode(ctx, req.CouponCode)
		if err != nil {
			if errors.Is(err, coupon.ErrNotFound) {
				return nil, ErrUnknownCoupon
			}
			return nil, errors.Wrap(err, "find coupon")
		}
		draft.ApplyCoupon(rule)
	}

	info, shipping, userName, err := s.resolveParty(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &FinalizedOrder{
		ID:             uuid.New().String(),
		InvoiceCode:    newInvoiceCode(now),
		CreatedAt:      now,
		UserName:       userName,
		Customer:       info,
		ShippingAddr:   shipping,
		LineItems:      draft.LineItems(),
		Coupon:         rule,
		ItemSubtotal:   draft.ItemSubtotal(),
		ShippingCharge: draft.ShippingCharge(),
		Discount:       draft.Discount(),
		TotalAmount:    draft.Total(),
		PaymentType:    req.PaymentType,
		Payments: []Payment{{
			PaidAmount: decimal.Zero,
			DueAmount:  draft.Total(),
			Status:     PaymentPending,
			Type:       req.PaymentType,
		}},
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// resolveParty produces the billing identity and optional shipping address
// for the request. Guest orders carry no structured shipping address and
// ship to the billing address.
func (s *Service) resolveParty(ctx context.Context, req PlaceOrderRequest) (CustomerInfo, *ShippingAddress, string, error) {
	if req.Guest != nil {
		g := req.Guest
		return CustomerInfo{
			Name:    g.Name,
			Phone:   g.Phone,
			Email:   g.Email,
			Address: g.Address,
		}, nil, g.Name, nil
	}

	c, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return CustomerInfo{}, nil, "", errors.Wrap(err, "get customer")
	}
	info := CustomerInfo{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}

	if req.ShippingAddressID == "" {
		return info, nil, c.Name, nil
	}

	addr, err := s.customers.GetShippingAddress(ctx, req.ShippingAddressID)
	if err != nil {
		return CustomerInfo{}, nil, "", errors.Wrap(err, "get shipping address")
	}
	if addr.CustomerID != c.ID {
		return CustomerInfo{}, nil, "", ErrAddressMismatch
	}
	return info, &ShippingAddress{
		FirstName: addr.FirstName,
		LastName:  addr.LastName,
		Address:   addr.Address,
		City:      addr.City,
		Zip:       addr.Zip,
		Phone:     addr.Phone,
	}, c.Name, nil
}

func validateParty(req PlaceOrderRequest) error {
	switch {
	case req.Guest == nil && req.CustomerID == "":
		return ErrNoCustomer
	case req.Guest != nil && req.CustomerID != "":
		return ErrTwoCustomers
	case req.Guest != nil && (req.Guest.Name == "" || req.Guest.Phone == ""):
		return ErrGuestIncomplete
	}
	return nil
}

func validPaymentType(t PaymentType) bool {
	switch t {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

// newInvoiceCode builds a human-readable invoice code: date prefix plus a
// short random suffix, e.g. INV-20250615-7C2F91AB.
func newInvoiceCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
