package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
)

type couponPayload struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	MinPurchase decimal.Decimal `json:"min_purchase"`
	ItemIDs     []string        `json:"item_ids,omitempty"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

type couponRequest struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	MinPurchase decimal.Decimal `json:"min_purchase"`
	ItemIDs     []string        `json:"item_ids,omitempty"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

func (req *couponRequest) validate() string {
	if req.Code == "" {
		return "code required"
	}
	switch coupon.Kind(req.Kind) {
	case coupon.KindPercent, coupon.KindFlat:
	default:
		return "kind must be percent or flat"
	}
	if !req.Amount.IsPositive() {
		return "amount must be positive"
	}
	if req.MinPurchase.IsNegative() {
		return "min_purchase must not be negative"
	}
	return ""
}

func (h *Handler) listCoupons(w http.ResponseWriter, r *http.Request) {
	rules, err := h.coupons.List(r.Context())
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "list coupons"))
		return
	}

	out := make([]couponPayload, len(rules))
	for i, c := range rules {
		out[i] = toCouponPayload(c)
	}
	h.respondData(w, r, http.StatusOK, out)
}

func (h *Handler) createCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	c := coupon.Rule{
		ID:          uuid.New().String(),
		Code:        req.Code,
		Kind:        coupon.Kind(req.Kind),
		Amount:      req.Amount,
		MinPurchase: req.MinPurchase,
		ItemIDs:     req.ItemIDs,
		Description: req.Description,
		Active:      req.Active,
	}
	if err := h.coupons.Create(r.Context(), &c); err != nil {
		h.respondError(w, r, errors.Wrap(err, "create coupon"))
		return
	}
	h.respondData(w, r, http.StatusCreated, toCouponPayload(c))
}

func (h *Handler) updateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, msg)
		return
	}

	c := coupon.Rule{
		ID:          r.PathValue("id"),
		Code:        req.Code,
		Kind:        coupon.Kind(req.Kind),
		Amount:      req.Amount,
		MinPurchase: req.MinPurchase,
		ItemIDs:     req.ItemIDs,
		Description: req.Description,
		Active:      req.Active,
	}
	if err := h.coupons.Update(r.Context(), &c); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "coupon not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "update coupon"))
		return
	}
	h.respondData(w, r, http.StatusOK, toCouponPayload(c))
}

func (h *Handler) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "coupon not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "delete coupon"))
		return
	}
	h.respondMessage(w, r, http.StatusOK, "coupon deleted")
}

func toCouponPayload(c coupon.Rule) couponPayload {
	return couponPayload{
		ID:          c.ID,
		Code:        c.Code,
		Kind:        string(c.Kind),
		Amount:      c.Amount,
		MinPurchase: c.MinPurchase,
		ItemIDs:     c.ItemIDs,
		Description: c.Description,
		Active:      c.Active,
	}
}
