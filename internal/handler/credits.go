package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/service"
)

type trackViewRequest struct {
	PlacementID   string `json:"placementId"`
	SessionID     string `json:"sessionId"`
	ViewDuration  int    `json:"viewDuration"`
	SlotID        string `json:"slotId"`
	WalletAddress string `json:"walletAddress"`
}

// trackView accepts one milestone report. Ignored reports still answer 200
// with zero credits so tracker retries stay quiet.
func (h *Handler) trackView(w http.ResponseWriter, r *http.Request) {
	var req trackViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	earned, err := h.tracker.ReportMilestone(r.Context(), service.MilestoneReport{
		SessionID:        req.SessionID,
		PlacementID:      req.PlacementID,
		SlotID:           req.SlotID,
		MilestoneSeconds: req.ViewDuration,
		WalletAddress:    req.WalletAddress,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"creditsEarned": earned})
}

type claimCreditsRequest struct {
	SessionID     string `json:"sessionId"`
	WalletAddress string `json:"walletAddress"`
}

type claimCreditsResponse struct {
	CreditsClaimed decimal.Decimal `json:"creditsClaimed"`
	ViewsClaimed   int             `json:"viewsClaimed"`
}

func (h *Handler) claimCredits(w http.ResponseWriter, r *http.Request) {
	var req claimCreditsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.ledger.ClaimPendingCredits(r.Context(), req.SessionID, req.WalletAddress)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claimCreditsResponse{
		CreditsClaimed: res.CreditsClaimed,
		ViewsClaimed:   res.ViewsClaimed,
	})
}

func (h *Handler) credits(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.GetBalance(r.Context(), chi.URLParam(r, "walletAddress"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"credits": balance})
}

type creditRecordResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (h *Handler) creditHistory(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "walletAddress")
	records, err := h.ledger.History(r.Context(), wallet)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]creditRecordResponse, len(records))
	for i, rec := range records {
		out[i] = creditRecordResponse{
			Amount:    rec.Amount,
			Type:      string(rec.EntryType),
			Reference: rec.Reference,
			CreatedAt: rec.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"walletAddress": wallet,
		"history":       out,
	})
}
