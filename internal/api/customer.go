package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/okhld/orderdesk/internal/domain/customer"
)

type savedAddressPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}

func (h *Handler) listShippingAddresses(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("userID")
	if _, err := h.customers.GetByID(r.Context(), customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "customer not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "get customer"))
		return
	}

	addrs, err := h.customers.ListShippingAddresses(r.Context(), customerID)
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "list shipping addresses"))
		return
	}

	out := make([]savedAddressPayload, len(addrs))
	for i, a := range addrs {
		out[i] = savedAddressPayload{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Address:   a.Address,
			City:      a.City,
			Zip:       a.Zip,
			Phone:     a.Phone,
		}
	}
	h.respondData(w, r, http.StatusOK, out)
}
