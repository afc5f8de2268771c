package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/okhld/orderdesk/internal/domain/faq"
)

type faqPayload struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

type faqRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

func (h *Handler) listFAQs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.faqs.List(r.Context())
	if err != nil {
		h.respondError(w, r, errors.Wrap(err, "list faqs"))
		return
	}

	out := make([]faqPayload, len(entries))
	for i, f := range entries {
		out[i] = faqPayload(f)
	}
	h.respondData(w, r, http.StatusOK, out)
}

func (h *Handler) createFAQ(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, "question and answer required")
		return
	}

	f := faq.FAQ{
		ID:       uuid.New().String(),
		Question: req.Question,
		Answer:   req.Answer,
		Position: req.Position,
	}
	if err := h.faqs.Create(r.Context(), &f); err != nil {
		h.respondError(w, r, errors.Wrap(err, "create faq"))
		return
	}
	h.respondData(w, r, http.StatusCreated, faqPayload(f))
}

func (h *Handler) updateFAQ(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := decode(r, &req); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		h.respondMessage(w, r, http.StatusUnprocessableEntity, "question and answer required")
		return
	}

	f := faq.FAQ{
		ID:       r.PathValue("id"),
		Question: req.Question,
		Answer:   req.Answer,
		Position: req.Position,
	}
	if err := h.faqs.Update(r.Context(), &f); err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "faq not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "update faq"))
		return
	}
	h.respondData(w, r, http.StatusOK, faqPayload(f))
}

func (h *Handler) deleteFAQ(w http.ResponseWriter, r *http.Request) {
	if err := h.faqs.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			h.respondMessage(w, r, http.StatusNotFound, "faq not found")
			return
		}
		h.respondError(w, r, errors.Wrap(err, "delete faq"))
		return
	}
	h.respondMessage(w, r, http.StatusOK, "faq deleted")
}
