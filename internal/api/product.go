package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/product"
)

type productPayload struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsBundle bool            `json:"is_bundle"`
	ImageURL string          `json:"image_url"`
}

type productRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsBundle bool            `json:"is_bundle"`
	ImageURL string          `json:"image_url"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		items []product.Product
		err   error
	)
	if q := r.URL.Query().Get("search"); q != "" {
		items, err = h.products.Search(r.Context(), q)
	} else {
		items, err = h.products.List(r.Context())
	}
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productPayload, len(items))
	for i, p := range items {
		out[i] = toProductPayload(p)
	}
	h.respondData(w, r, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "product not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "get product"))
		return
	}
	h.respondData(w, r, http.StatusOK, toProductPayload(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || !req.Price.IsPositive() {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, "name and positive price required")
		return
	}

	p := product.Product{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		IsBundle: req.IsBundle,
		ImageURL: req.ImageURL,
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		h.respondError(w, r, errors.Wrap(err, "create product"))
		return
	}
	h.respondData(w, r, http.StatusCreated, toProductPayload(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || !req.Price.IsPositive() {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, "name and positive price required")
		return
	}

	p := product.Product{
		ID:       r.PathValue("id"),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		IsBundle: req.IsBundle,
		ImageURL: req.ImageURL,
	}
	if err := h.products.Update(r.Context(), &p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "product not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "update product"))
		return
	}
	h.respondData(w, r, http.StatusOK, toProductPayload(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "product not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "delete product"))
		return
	}
	h.respondMessage(w, r, http.StatusOK, "product deleted")
}

func toProductPayload(p product.Product) productPayload {
	return productPayload{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		IsBundle: p.IsBundle,
		ImageURL: p.ImageURL,
	}
}
