// Package api exposes the admin REST surface over net/http. Handlers decode
// requests, delegate to domain services and repositories, and wrap results in
// the {success, data, message} envelope the dashboard consumes.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/okhld/orderdesk/internal/domain/auth"
	"github.com/okhld/orderdesk/internal/domain/coupon"
	"github.com/okhld/orderdesk/internal/domain/customer"
	"github.com/okhld/orderdesk/internal/domain/faq"
	"github.com/okhld/orderdesk/internal/domain/order"
	"github.com/okhld/orderdesk/internal/domain/product"
	"github.com/okhld/orderdesk/internal/invoice"
	"github.com/okhld/orderdesk/internal/session"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	products  product.Repository
	coupons   coupon.Repository
	customers customer.Repository
	faqs      faq.Repository
	orders    order.Repository
	placer    *order.Service
	invoices  *invoice.Renderer
	sessions  *session.Manager
	apikeys   auth.Repository
	pepper    []byte
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	coupons coupon.Repository,
	customers customer.Repository,
	faqs faq.Repository,
	orders order.Repository,
	placer *order.Service,
	invoices *invoice.Renderer,
	sessions *session.Manager,
	apikeys auth.Repository,
	pepper []byte,
) *Handler {
	return &Handler{
		products:  products,
		coupons:   coupons,
		customers: customers,
		faqs:      faqs,
		orders:    orders,
		placer:    placer,
		invoices:  invoices,
		sessions:  sessions,
		apikeys:   apikeys,
		pepper:    pepper,
	}
}

// Routes registers every endpoint on the mux. Mutating catalog/coupon/faq
// routes and order reads require an admin API key; order placement is open
// and optionally session-authenticated.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("POST /api/products", h.admin(h.createProduct))
	mux.HandleFunc("PUT /api/products/{id}", h.admin(h.updateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", h.admin(h.deleteProduct))

	mux.HandleFunc("GET /api/coupons", h.listCoupons)
	mux.HandleFunc("POST /api/coupons", h.admin(h.createCoupon))
	mux.HandleFunc("PUT /api/coupons/{id}", h.admin(h.updateCoupon))
	mux.HandleFunc("DELETE /api/coupons/{id}", h.admin(h.deleteCoupon))

	mux.HandleFunc("GET /api/shipping-addresses/{userID}", h.listShippingAddresses)

	mux.HandleFunc("POST /api/orders/place-order", h.withSession(h.placeOrder))
	mux.HandleFunc("GET /api/orders", h.admin(h.listOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.admin(h.getOrder))
	mux.HandleFunc("GET /api/orders/{id}/invoice", h.admin(h.getInvoice))

	mux.HandleFunc("GET /api/faqs", h.listFAQs)
	mux.HandleFunc("POST /api/faqs", h.admin(h.createFAQ))
	mux.HandleFunc("PUT /api/faqs/{id}", h.admin(h.updateFAQ))
	mux.HandleFunc("DELETE /api/faqs/{id}", h.admin(h.deleteFAQ))
}

// envelope is the uniform response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) respondData(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.respond(w, r, status, envelope{Success: true, Data: data})
}

func (h *Handler) respondMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.respond(w, r, status, envelope{Success: status < 400, Message: msg})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Warn("encode response", zap.Error(err))
	}
}

// respondError logs the unexpected error and hides its detail from clients.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	h.respondMessage(w, r, http.StatusInternalServerError, "internal error")
}

// decode reads the JSON request body into dst, rejecting unknown fields so
// the dashboard notices renamed fields instead of silently dropping them.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
