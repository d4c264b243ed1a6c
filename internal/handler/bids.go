package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/service"
)

type creativeRequest struct {
	Kind        string `json:"kind"`
	ContentURL  string `json:"contentUrl"`
	ClickURL    string `json:"clickUrl"`
	Description string `json:"description"`
}

type paymentRequest struct {
	TransactionHash string          `json:"transactionHash"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	Memo            string          `json:"memo"`
}

type submitBidRequest struct {
	SlotID          string          `json:"slotId"`
	BidderWallet    string          `json:"bidderWallet"`
	BidAmount       decimal.Decimal `json:"bidAmount"`
	Duration        string          `json:"duration"`
	DiscountApplied decimal.Decimal `json:"discountApplied"`
	Creative        creativeRequest `json:"creative"`
	Payment         paymentRequest  `json:"payment"`
}

type submitBidResponse struct {
	EntryID     string `json:"entryId"`
	PlacementID string `json:"placementId"`
	Position    int    `json:"position"`
	Status      string `json:"status"`
}

// submitBid queues a paid bid and then tries to activate the slot so an idle
// slot starts showing the ad without waiting for the scheduler. A retried
// request with the same payment answers 200 with the original entry.
func (h *Handler) submitBid(w http.ResponseWriter, r *http.Request) {
	var req submitBidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	duration, err := time.ParseDuration(req.Duration)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, req.Duration))
		return
	}

	res, err := h.queue.SubmitBid(r.Context(), service.BidRequest{
		SlotID:          req.SlotID,
		BidderWallet:    req.BidderWallet,
		BidAmount:       req.BidAmount,
		Duration:        duration,
		DiscountApplied: req.DiscountApplied,
		Creative: domain.Creative{
			Kind:        domain.ContentKind(req.Creative.Kind),
			ContentURL:  req.Creative.ContentURL,
			ClickURL:    req.Creative.ClickURL,
			Description: req.Creative.Description,
		},
		Payment: domain.PaymentProof{
			TransactionHash: req.Payment.TransactionHash,
			AmountPaid:      req.Payment.AmountPaid,
			Memo:            req.Payment.Memo,
		},
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := res.Entry.Status
	activated, err := h.activation.ActivateSlot(r.Context(), req.SlotID)
	if err != nil {
		slog.Warn("on-demand activation failed", "slot_id", req.SlotID, "error", err)
	}
	if activated {
		current, err := h.queue.GetCurrentAd(r.Context(), req.SlotID)
		if err == nil && current != nil && current.ID == res.Entry.ID {
			status = domain.EntryStatusActive
		}
	}

	code := http.StatusCreated
	if res.Replayed {
		code = http.StatusOK
	}
	writeJSON(w, code, submitBidResponse{
		EntryID:     res.Entry.ID,
		PlacementID: res.Entry.PlacementID(),
		Position:    res.Position,
		Status:      string(status),
	})
}

type quoteRequest struct {
	WalletAddress string          `json:"walletAddress"`
	BidAmount     decimal.Decimal `json:"bidAmount"`
}

type quoteResponse struct {
	Credits  decimal.Decimal `json:"credits"`
	Discount decimal.Decimal `json:"discount"`
	Payable  decimal.Decimal `json:"payable"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.queue.Quote(r.Context(), req.WalletAddress, req.BidAmount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Credits:  q.Credits,
		Discount: q.Discount,
		Payable:  q.Payable,
	})
}
