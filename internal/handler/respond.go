package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
)

var errBadBody = errors.New("invalid request body")

type errorResponse struct {
	Error      string           `json:"error"`
	MinimumBid *decimal.Decimal `json:"minimumBid,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

// writeError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a bare 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLow *domain.BidTooLowError
	if errors.As(err, &tooLow) {
		minimum := tooLow.Minimum
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), MinimumBid: &minimum})
		return
	}

	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadBody),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidCreative),
		errors.Is(err, domain.ErrInvalidWallet),
		errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, domain.ErrDiscountTooHigh):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSlotNotFound),
		errors.Is(err, domain.ErrPlacementNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientCredits),
		errors.Is(err, domain.ErrPaymentUnverified):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrPaymentAlreadyUsed),
		errors.Is(err, domain.ErrSlotExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// formatDuration drops the zero units time.Duration.String keeps, so one
// hour reads "1h" rather than "1h0m0s".
func formatDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
