package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/service"
)

type createSlotRequest struct {
	SlotID           string          `json:"slotId"`
	MinimumBasePrice decimal.Decimal `json:"minimumBasePrice"`
	DurationOptions  []string        `json:"durationOptions"`
	Category         string          `json:"category"`
}

type slotResponse struct {
	SlotID           string          `json:"slotId"`
	MinimumBasePrice decimal.Decimal `json:"minimumBasePrice"`
	DurationOptions  []string        `json:"durationOptions"`
	Category         string          `json:"category,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func toSlotResponse(s *domain.AdSlot) slotResponse {
	durations := make([]string, len(s.DurationOptions))
	for i, d := range s.DurationOptions {
		durations[i] = formatDuration(d)
	}
	return slotResponse{
		SlotID:           s.ID,
		MinimumBasePrice: s.MinimumBasePrice,
		DurationOptions:  durations,
		Category:         s.Category,
		CreatedAt:        s.CreatedAt,
	}
}

func (h *Handler) createSlot(w http.ResponseWriter, r *http.Request) {
	var req createSlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	durations := make([]time.Duration, 0, len(req.DurationOptions))
	for _, raw := range req.DurationOptions {
		d, err := time.ParseDuration(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, raw))
			return
		}
		durations = append(durations, d)
	}

	slot, err := h.slots.Create(r.Context(), service.CreateSlotRequest{
		ID:               req.SlotID,
		MinimumBasePrice: req.MinimumBasePrice,
		DurationOptions:  durations,
		Category:         req.Category,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSlotResponse(slot))
}

func (h *Handler) getSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.slots.Get(r.Context(), chi.URLParam(r, "slotId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (h *Handler) listSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.slots.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]slotResponse, len(slots))
	for i, s := range slots {
		out[i] = toSlotResponse(s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": out})
}
