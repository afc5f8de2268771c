package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/order"
	"github.com/okhld/orderdesk/internal/repository"
	"github.com/okhld/orderdesk/internal/session"
)

type orderItemPayload struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	IsBundle  bool            `json:"is_bundle,omitempty"`
}

type paymentPayload struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	Status     string          `json:"status"`
	Type       string          `json:"type"`
}

type customerInfoPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type shippingAddressPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}

type orderPayload struct {
	ID              string                  `json:"id"`
	InvoiceCode     string                  `json:"invoice_code"`
	CreatedAt       time.Time               `json:"created_at"`
	UserName        string                  `json:"user_name,omitempty"`
	Customer        customerInfoPayload     `json:"customer"`
	ShippingAddress *shippingAddressPayload `json:"shipping_address,omitempty"`
	Items           []orderItemPayload      `json:"items"`
	Payments        []paymentPayload        `json:"payments"`
	CouponCode      string                  `json:"coupon_code,omitempty"`
	ItemSubtotal    decimal.Decimal         `json:"item_subtotal"`
	ShippingCharge  decimal.Decimal         `json:"shipping_charge"`
	Discount        decimal.Decimal         `json:"discount"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	PaymentType     string                  `json:"payment_type"`
}

type placeItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type guestRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// placeOrderRequest discriminates guest and registered checkouts: exactly one
// of guest or customer_id identifies the buyer. A registered request may also
// omit customer_id and rely on the session token.
type placeOrderRequest struct {
	Items             []placeItemRequest `json:"items"`
	CouponCode        string             `json:"coupon_code,omitempty"`
	ShippingCharge    decimal.Decimal    `json:"shipping_charge"`
	PaymentType       string             `json:"payment_type"`
	Guest             *guestRequest      `json:"guest,omitempty"`
	CustomerID        string             `json:"customer_id,omitempty"`
	ShippingAddressID string             `json:"shipping_address_id,omitempty"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	in := order.PlaceOrderRequest{
		CouponCode:        req.CouponCode,
		ShippingCharge:    req.ShippingCharge,
		PaymentType:       order.PaymentType(req.PaymentType),
		CustomerID:        req.CustomerID,
		ShippingAddressID: req.ShippingAddressID,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, order.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if req.Guest != nil {
		in.Guest = &order.GuestInfo{
			Name:    req.Guest.Name,
			Phone:   req.Guest.Phone,
			Email:   req.Guest.Email,
			Address: req.Guest.Address,
		}
	}
	if in.Guest == nil && in.CustomerID == "" {
		if s := session.FromContext(r.Context()); s != nil {
			in.CustomerID = s.CustomerID
		}
	}

	o, err := h.placer.PlaceOrder(r.Context(), in)
	if err != nil {
		h.respondPlaceOrderError(w, r, err)
		return
	}
	h.respondData(w, r, http.StatusCreated, toOrderPayload(o))
}

// respondPlaceOrderError maps order placement failures onto HTTP statuses.
// Validation failures surface their message; unexpected errors stay opaque.
func (h *Handler) respondPlaceOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *order.ProductNotFoundError
		badQty   *order.InvalidQuantityError
	)
	switch {
	case errors.As(err, &notFound):
		h.respondMessage(w, r, http.StatusNotFound, notFound.Error())
	case errors.As(err, &badQty):
		h.respondMessage(w, r, http.StatusUnprocessableEntity, badQty.Error())
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrNoCustomer),
		errors.Is(err, order.ErrTwoCustomers),
		errors.Is(err, order.ErrGuestIncomplete),
		errors.Is(err, order.ErrUnknownCoupon),
		errors.Is(err, order.ErrAddressMismatch),
		errors.Is(err, order.ErrUnknownPaymentType):
		h.respondMessage(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		h.respondError(w, r, errors.Wrap(err, "place order"))
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "list orders"))
		return
	}

	out := make([]orderPayload, len(orders))
	for i := range orders {
		out[i] = toOrderPayload(&orders[i])
	}
	h.respondData(w, r, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "order not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "get order"))
		return
	}
	h.respondData(w, r, http.StatusOK, toOrderPayload(o))
}

func toOrderPayload(o *order.FinalizedOrder) orderPayload {
	p := orderPayload{
		ID:          o.ID,
		InvoiceCode: o.InvoiceCode,
		CreatedAt:   o.CreatedAt,
		UserName:    o.UserName,
		Customer: customerInfoPayload{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Email:   o.Customer.Email,
			Address: o.Customer.Address,
		},
		ItemSubtotal:   o.ItemSubtotal,
		ShippingCharge: o.ShippingCharge,
		Discount:       o.Discount,
		TotalAmount:    o.TotalAmount,
		PaymentType:    string(o.PaymentType),
	}
	if o.ShippingAddr != nil {
		p.ShippingAddress = &shippingAddressPayload{
			FirstName: o.ShippingAddr.FirstName,
			LastName:  o.ShippingAddr.LastName,
			Address:   o.ShippingAddr.Address,
			City:      o.ShippingAddr.City,
			Zip:       o.ShippingAddr.Zip,
			Phone:     o.ShippingAddr.Phone,
		}
	}
	if o.Coupon != nil {
		p.CouponCode = o.Coupon.Code
	}
	for _, li := range o.LineItems {
		p.Items = append(p.Items, orderItemPayload{
			ProductID: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			IsBundle:  li.IsBundle,
		})
	}
	for _, pay := range o.Payments {
		p.Payments = append(p.Payments, paymentPayload{
			PaidAmount: pay.PaidAmount,
			DueAmount:  pay.DueAmount,
			Status:     string(pay.Status),
			Type:       string(pay.Type),
		})
	}
	return p
}
