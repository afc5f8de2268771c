package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/okhld/orderdesk/internal/invoice"
	"github.com/okhld/orderdesk/internal/repository"
)

// getInvoice renders the printable invoice page for an order. Unlike the
// JSON endpoints it responds with a self-contained HTML document.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "order not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "get order"))
		return
	}

	doc := invoice.Build(o, time.Now())
	if doc == nil {
		h.respondMessage(w, r, http.StatusNotFound, "order not found")
		return
	}

	page, err := h.invoices.Render(doc)
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "render invoice"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(page)); err != nil {
		zctx.From(r.Context()).Warn("write invoice", zap.Error(err))
	}
}
