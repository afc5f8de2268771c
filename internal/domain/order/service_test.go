package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okhld/orderdesk/internal/domain/coupon"
	"github.com/okhld/orderdesk/internal/domain/customer"
	"github.com/okhld/orderdesk/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) Search(_ context.Context, _ string) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ string) error           { return nil }

type mockCouponRepo struct {
	byCode map[string]*coupon.Rule
}

func (m *mockCouponRepo) List(_ context.Context) ([]coupon.Rule, error)           { return nil, nil }
func (m *mockCouponRepo) GetByID(_ context.Context, _ string) (*coupon.Rule, error) {
	return nil, coupon.ErrNotFound
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Rule, error) {
	r, ok := m.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return r, nil
}

func (m *mockCouponRepo) Create(_ context.Context, _ *coupon.Rule) error { return nil }
func (m *mockCouponRepo) Update(_ context.Context, _ *coupon.Rule) error { return nil }
func (m *mockCouponRepo) Delete(_ context.Context, _ string) error       { return nil }

type mockCustomerRepo struct {
	customers map[string]*customer.Customer
	addresses map[string]*customer.ShippingAddress
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) ListShippingAddresses(_ context.Context, _ string) ([]customer.ShippingAddress, error) {
	return nil, nil
}

func (m *mockCustomerRepo) GetShippingAddress(_ context.Context, id string) (*customer.ShippingAddress, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return a, nil
}

type mockOrderRepo struct {
	lastOrder *FinalizedOrder
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *FinalizedOrder) error {
	m.lastOrder = o
	return m.err
}

func (m *mockOrderRepo) GetByID(_ context.Context, _ string) (*FinalizedOrder, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderRepo) List(_ context.Context) ([]FinalizedOrder, error) { return nil, nil }

// --- Helpers ---

func newTestService(products *mockProductRepo, coupons *mockCouponRepo, customers *mockCustomerRepo, orders *mockOrderRepo) *Service {
	if coupons == nil {
		coupons = &mockCouponRepo{}
	}
	if customers == nil {
		customers = &mockCustomerRepo{}
	}
	if orders == nil {
		orders = &mockOrderRepo{}
	}
	svc := NewService(products, coupons, customers, orders)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func guestReq(items ...ItemRequest) PlaceOrderRequest {
	return PlaceOrderRequest{
		Items:       items,
		PaymentType: PaymentCash,
		Guest:       &GuestInfo{Name: "Walk In", Phone: "+15550000"},
	}
}

// --- Tests ---

func TestPlaceOrder_EmptyItems(t *testing.T) {
	svc := newTestService(newProductRepo(), nil, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlaceOrder_PartyValidation(t *testing.T) {
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, nil, nil)
	items := []ItemRequest{{ProductID: "p1", Quantity: 1}}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:       items,
		PaymentType: PaymentCash,
	})
	require.ErrorIs(t, err, ErrNoCustomer)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:       items,
		PaymentType: PaymentCash,
		Guest:       &GuestInfo{Name: "Walk In", Phone: "+15550000"},
		CustomerID:  "c1",
	})
	require.ErrorIs(t, err, ErrTwoCustomers)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:       items,
		PaymentType: PaymentCash,
		Guest:       &GuestInfo{Name: "No Phone"},
	})
	require.ErrorIs(t, err, ErrGuestIncomplete)
}

func TestPlaceOrder_UnknownPaymentType(t *testing.T) {
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, nil, nil)

	req := guestReq(ItemRequest{ProductID: "p1", Quantity: 1})
	req.PaymentType = PaymentType("barter")

	_, err := svc.PlaceOrder(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownPaymentType)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), guestReq(ItemRequest{ProductID: "p1", Quantity: 0}))

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "p1", iqErr.ProductID)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	svc := newTestService(newProductRepo(), nil, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), guestReq(ItemRequest{ProductID: "missing", Quantity: 1}))

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestPlaceOrder_GuestOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := newTestService(
		newProductRepo(
			testProduct("p1", "Widget", "10.00"),
			testProduct("p2", "Gadget", "20.00"),
		),
		nil, nil, orders,
	)

	req := guestReq(
		ItemRequest{ProductID: "p1", Quantity: 2},
		ItemRequest{ProductID: "p2", Quantity: 1},
	)
	req.ShippingCharge = decimal.RequireFromString("5.00")

	o, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assertDecimal(t, "40.00", o.ItemSubtotal)
	assertDecimal(t, "45.00", o.TotalAmount)
	assert.Equal(t, "Walk In", o.Customer.Name)
	assert.Equal(t, "Walk In", o.UserName)
	assert.Nil(t, o.ShippingAddr, "guest orders ship to the billing address")
	assert.True(t, strings.HasPrefix(o.InvoiceCode, "INV-20250615-"), "got %s", o.InvoiceCode)
	assert.NotEmpty(t, o.ID)
	assert.Same(t, o, orders.lastOrder)

	require.Len(t, o.Payments, 1)
	assert.Equal(t, PaymentPending, o.Payments[0].Status)
	assertDecimal(t, "0", o.Payments[0].PaidAmount)
	assertDecimal(t, "45.00", o.Payments[0].DueAmount)
}

func TestPlaceOrder_WithCoupon(t *testing.T) {
	coupons := &mockCouponRepo{byCode: map[string]*coupon.Rule{
		"SAVE18": {
			ID:     "c1",
			Code:   "SAVE18",
			Kind:   coupon.KindPercent,
			Amount: decimal.NewFromInt(18),
			Active: true,
		},
	}}
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "50.00")), coupons, nil, nil)

	req := guestReq(ItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "SAVE18"

	o, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assertDecimal(t, "9.00", o.Discount)
	assertDecimal(t, "41.00", o.TotalAmount)
	require.NotNil(t, o.Coupon)
	assert.Equal(t, "SAVE18", o.Coupon.Code)
}

func TestPlaceOrder_UnknownCoupon(t *testing.T) {
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, nil, nil)

	req := guestReq(ItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "BOGUS"

	_, err := svc.PlaceOrder(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownCoupon)
}

func TestPlaceOrder_RegisteredCustomer(t *testing.T) {
	customers := &mockCustomerRepo{
		customers: map[string]*customer.Customer{
			"c1": {ID: "c1", Name: "Jordan Reed", Phone: "+15550001", Email: "jordan@example.com"},
		},
		addresses: map[string]*customer.ShippingAddress{
			"a1": {ID: "a1", CustomerID: "c1", FirstName: "Jordan", LastName: "Reed", Address: "9 Pine Rd", City: "Salem", Zip: "97301"},
		},
	}
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, customers, nil)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:             []ItemRequest{{ProductID: "p1", Quantity: 1}},
		PaymentType:       PaymentCard,
		CustomerID:        "c1",
		ShippingAddressID: "a1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan Reed", o.Customer.Name)
	assert.Equal(t, "Jordan Reed", o.UserName)
	require.NotNil(t, o.ShippingAddr)
	assert.Equal(t, "Salem", o.ShippingAddr.City)
}

func TestPlaceOrder_RegisteredWithoutSavedAddress(t *testing.T) {
	customers := &mockCustomerRepo{
		customers: map[string]*customer.Customer{
			"c1": {ID: "c1", Name: "Jordan Reed", Phone: "+15550001"},
		},
	}
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, customers, nil)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:       []ItemRequest{{ProductID: "p1", Quantity: 1}},
		PaymentType: PaymentOnline,
		CustomerID:  "c1",
	})
	require.NoError(t, err)
	assert.Nil(t, o.ShippingAddr)
}

func TestPlaceOrder_AddressOwnershipEnforced(t *testing.T) {
	customers := &mockCustomerRepo{
		customers: map[string]*customer.Customer{
			"c1": {ID: "c1", Name: "Jordan Reed", Phone: "+15550001"},
		},
		addresses: map[string]*customer.ShippingAddress{
			"a2": {ID: "a2", CustomerID: "someone-else"},
		},
	}
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, customers, nil)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:             []ItemRequest{{ProductID: "p1", Quantity: 1}},
		PaymentType:       PaymentCard,
		CustomerID:        "c1",
		ShippingAddressID: "a2",
	})
	require.ErrorIs(t, err, ErrAddressMismatch)
}

func TestPlaceOrder_OrderCreateError(t *testing.T) {
	orders := &mockOrderRepo{err: errors.New("db write failed")}
	svc := newTestService(newProductRepo(testProduct("p1", "Widget", "10.00")), nil, nil, orders)

	_, err := svc.PlaceOrder(context.Background(), guestReq(ItemRequest{ProductID: "p1", Quantity: 1}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}
