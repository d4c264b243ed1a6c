package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type currentAdResponse struct {
	ExpiresAt     time.Time `json:"expiresAt"`
	TimeRemaining int64     `json:"timeRemaining"`
}

type queuedBidResponse struct {
	Position  int             `json:"position"`
	BidAmount decimal.Decimal `json:"bidAmount"`
	StartsAt  time.Time       `json:"startsAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

type queueInfoResponse struct {
	IsAvailable  bool                `json:"isAvailable"`
	MinimumBid   decimal.Decimal     `json:"minimumBid"`
	TotalInQueue int                 `json:"totalInQueue"`
	CurrentAd    *currentAdResponse  `json:"currentAd,omitempty"`
	QueueInfo    []queuedBidResponse `json:"queueInfo"`
}

func (h *Handler) queueInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.queue.GetQueueInfo(r.Context(), chi.URLParam(r, "slotId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := queueInfoResponse{
		IsAvailable:  info.IsAvailable,
		MinimumBid:   info.MinimumBid,
		TotalInQueue: info.TotalInQueue,
		QueueInfo:    make([]queuedBidResponse, len(info.Queue)),
	}
	if info.CurrentAd != nil {
		resp.CurrentAd = &currentAdResponse{
			ExpiresAt:     info.CurrentAd.ExpiresAt,
			TimeRemaining: info.CurrentAd.TimeRemaining.Milliseconds(),
		}
	}
	for i, q := range info.Queue {
		resp.QueueInfo[i] = queuedBidResponse{
			Position:  q.Position,
			BidAmount: q.BidAmount,
			StartsAt:  q.StartsAt,
			ExpiresAt: q.ExpiresAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) processQueue(w http.ResponseWriter, r *http.Request) {
	n := h.activation.ProcessQueue(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"activatedCount": n})
}

type currentAdContentResponse struct {
	HasAd       bool       `json:"hasAd"`
	PlacementID string     `json:"placementId,omitempty"`
	ContentURL  string     `json:"contentUrl,omitempty"`
	ContentKind string     `json:"contentKind,omitempty"`
	ClickURL    string     `json:"clickUrl,omitempty"`
	Description string     `json:"description,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

func (h *Handler) currentAd(w http.ResponseWriter, r *http.Request) {
	entry, err := h.queue.GetCurrentAd(r.Context(), chi.URLParam(r, "slotId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusOK, currentAdContentResponse{HasAd: false})
		return
	}
	writeJSON(w, http.StatusOK, currentAdContentResponse{
		HasAd:       true,
		PlacementID: entry.PlacementID(),
		ContentURL:  entry.Creative.ContentURL,
		ContentKind: string(entry.Creative.Kind),
		ClickURL:    entry.Creative.ClickURL,
		Description: entry.Creative.Description,
		ExpiresAt:   entry.ExpiresAt,
	})
}
