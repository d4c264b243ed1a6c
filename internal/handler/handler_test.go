package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository/memstore"
	"github.com/swift-add/website/internal/service"
)

var txSeq atomic.Int64

func newTestRouter(t *testing.T, store *memstore.Store, rateLimit int) http.Handler {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:        []string{"*"},
		TrackViewRateLimit: rateLimit,
	}
	schedule := domain.CreditSchedule{
		10:  decimal.RequireFromString("0.01"),
		30:  decimal.RequireFromString("0.02"),
		60:  decimal.RequireFromString("0.03"),
		120: decimal.RequireFromString("0.06"),
		240: decimal.RequireFromString("0.12"),
		480: decimal.RequireFromString("0.24"),
	}
	h := New(Deps{
		Cfg:   cfg,
		Slots: service.NewSlotService(store),
		Queue: service.NewQueueService(store, service.QueueConfig{
			BidIncrement: decimal.RequireFromString("0.1"),
			Pricing: service.Pricing{
				MaxDiscountRatio: decimal.RequireFromString("0.5"),
				MinPaymentFloor:  decimal.RequireFromString("0.01"),
			},
			MemoPrefix:          "SwiftAd",
			RequirePaymentProof: true,
		}, nil, nil),
		Activation: service.NewActivationService(store, nil),
		Tracker: service.NewTrackerService(store, service.TrackerConfig{
			Milestones:     config.Milestones,
			Schedule:       schedule,
			ClockTolerance: 3 * time.Second,
		}),
		Ledger:  service.NewLedgerService(store, nil),
		Limiter: store,
	})
	return h.Routes()
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func createSlot(t *testing.T, r http.Handler, id string) {
	t.Helper()
	code, body := do(t, r, http.MethodPost, "/api/slots", map[string]any{
		"slotId":           id,
		"minimumBasePrice": "1",
		"durationOptions":  []string{"30m", "1h"},
		"category":         "tech",
	})
	require.Equal(t, http.StatusCreated, code, body)
}

func bidBody(slotID, wallet, amount string) map[string]any {
	return map[string]any{
		"slotId":          slotID,
		"bidderWallet":    wallet,
		"bidAmount":       amount,
		"duration":        "1h",
		"discountApplied": "0",
		"creative": map[string]any{
			"kind":       "image",
			"contentUrl": "https://cdn.example.com/banner.png",
			"clickUrl":   "https://example.com",
		},
		"payment": map[string]any{
			"transactionHash": "tx" + decimal.NewFromInt(txSeq.Add(1)).String(),
			"amountPaid":      amount,
			"memo":            service.FormatMemo("SwiftAd", slotID, decimal.Zero),
		},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	code, body := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSlots(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")

	code, body := do(t, r, http.MethodGet, "/api/slots/hero", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1", body["minimumBasePrice"])
	assert.Equal(t, []any{"30m", "1h"}, body["durationOptions"])

	code, body = do(t, r, http.MethodGet, "/api/slots", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["slots"], 1)

	code, _ = do(t, r, http.MethodPost, "/api/slots", map[string]any{
		"slotId":           "hero",
		"minimumBasePrice": "1",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, r, http.MethodPost, "/api/slots", map[string]any{
		"slotId":           "side",
		"minimumBasePrice": "1",
		"durationOptions":  []string{"forever"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBidLifecycle(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")

	code, info := do(t, r, http.MethodGet, "/api/queue-info/hero", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, info["isAvailable"])
	assert.Equal(t, "1", info["minimumBid"])
	assert.NotContains(t, info, "currentAd")
	assert.Equal(t, []any{}, info["queueInfo"])

	code, first := do(t, r, http.MethodPost, "/api/bids", bidBody("hero", "GFIRST", "5"))
	require.Equal(t, http.StatusCreated, code, first)
	assert.Equal(t, "active", first["status"])
	assert.EqualValues(t, 1, first["position"])
	assert.Equal(t, first["entryId"], first["placementId"])

	code, low := do(t, r, http.MethodPost, "/api/bids", bidBody("hero", "GLOW", "4"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "5.1", low["minimumBid"])

	code, second := do(t, r, http.MethodPost, "/api/bids", bidBody("hero", "GSECOND", "6"))
	require.Equal(t, http.StatusCreated, code, second)
	assert.Equal(t, "queued", second["status"])
	assert.EqualValues(t, 2, second["position"])

	code, info = do(t, r, http.MethodGet, "/api/queue-info/hero", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, info["isAvailable"])
	assert.Equal(t, "6.1", info["minimumBid"])
	assert.EqualValues(t, 1, info["totalInQueue"])

	current := info["currentAd"].(map[string]any)
	assert.Greater(t, current["timeRemaining"].(float64), float64(0))
	queue := info["queueInfo"].([]any)
	require.Len(t, queue, 1)
	next := queue[0].(map[string]any)
	assert.EqualValues(t, 1, next["position"])
	assert.Equal(t, "6", next["bidAmount"])
	assert.Equal(t, current["expiresAt"], next["startsAt"])

	code, ad := do(t, r, http.MethodGet, "/api/ads/hero", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, ad["hasAd"])
	assert.Equal(t, first["placementId"], ad["placementId"])
	assert.Equal(t, "image", ad["contentKind"])

	code, processed := do(t, r, http.MethodPost, "/api/process-queue", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, processed["activatedCount"])
}

func TestCurrentAd_EmptySlot(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")

	code, ad := do(t, r, http.MethodGet, "/api/ads/hero", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, ad["hasAd"])
	assert.NotContains(t, ad, "placementId")
}

func TestViewCredits(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")
	_, bid := do(t, r, http.MethodPost, "/api/bids", bidBody("hero", "GADVERTISER", "5"))
	placement := bid["placementId"]

	report := map[string]any{
		"placementId":   placement,
		"sessionId":     "sess-1",
		"viewDuration":  10,
		"slotId":        "hero",
		"walletAddress": "GVIEWER",
	}
	code, body := do(t, r, http.MethodPost, "/api/track-view", report)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "0.01", body["creditsEarned"])

	code, body = do(t, r, http.MethodPost, "/api/track-view", report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0", body["creditsEarned"])

	code, body = do(t, r, http.MethodGet, "/api/credits/GVIEWER", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.01", body["credits"])

	code, body = do(t, r, http.MethodGet, "/api/credits/GVIEWER/history", nil)
	require.Equal(t, http.StatusOK, code)
	history := body["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "award", history[0].(map[string]any)["type"])

	code, body = do(t, r, http.MethodPost, "/api/quote", map[string]any{
		"walletAddress": "GVIEWER",
		"bidAmount":     "1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.01", body["credits"])
	assert.Equal(t, "0.01", body["discount"])
	assert.Equal(t, "0.99", body["payable"])
}

func TestClaimCredits(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")
	_, bid := do(t, r, http.MethodPost, "/api/bids", bidBody("hero", "GADVERTISER", "5"))

	code, body := do(t, r, http.MethodPost, "/api/track-view", map[string]any{
		"placementId":  bid["placementId"],
		"sessionId":    "anon",
		"viewDuration": 10,
		"slotId":       "hero",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0", body["creditsEarned"])

	claim := map[string]any{"sessionId": "anon", "walletAddress": "GLATE"}
	code, body = do(t, r, http.MethodPost, "/api/claim-credits", claim)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "0.01", body["creditsClaimed"])
	assert.EqualValues(t, 1, body["viewsClaimed"])

	code, body = do(t, r, http.MethodPost, "/api/claim-credits", claim)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0", body["creditsClaimed"])
	assert.EqualValues(t, 0, body["viewsClaimed"])
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")

	badMemo := bidBody("hero", "GBIDDER", "5")
	badMemo["payment"].(map[string]any)["memo"] = service.FormatMemo("SwiftAd", "other", decimal.Zero)

	underpaid := bidBody("hero", "GBIDDER", "5")
	underpaid["payment"].(map[string]any)["amountPaid"] = "1"

	badDuration := bidBody("hero", "GBIDDER", "5")
	badDuration["duration"] = "2h"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown slot queue info", http.MethodGet, "/api/queue-info/nope", nil, http.StatusNotFound},
		{"unknown slot ad", http.MethodGet, "/api/ads/nope", nil, http.StatusNotFound},
		{"malformed wallet", http.MethodGet, "/api/credits/-bad", nil, http.StatusBadRequest},
		{"bid on unknown slot", http.MethodPost, "/api/bids", bidBody("nope", "GBIDDER", "5"), http.StatusNotFound},
		{"memo for another slot", http.MethodPost, "/api/bids", badMemo, http.StatusPaymentRequired},
		{"underpaid", http.MethodPost, "/api/bids", underpaid, http.StatusPaymentRequired},
		{"duration not offered", http.MethodPost, "/api/bids", badDuration, http.StatusBadRequest},
		{"unknown placement", http.MethodPost, "/api/track-view", map[string]any{
			"placementId": "missing", "sessionId": "s", "viewDuration": 10, "slotId": "hero",
		}, http.StatusNotFound},
		{"zero quote", http.MethodPost, "/api/quote", map[string]any{"bidAmount": "0"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMalformedBody(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)

	req := httptest.NewRequest(http.MethodPost, "/api/bids", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentSingleUse(t *testing.T) {
	r := newTestRouter(t, memstore.New(), 0)
	createSlot(t, r, "hero")

	first := bidBody("hero", "GFIRST", "5")
	code, created := do(t, r, http.MethodPost, "/api/bids", first)
	require.Equal(t, http.StatusCreated, code)

	code, retried := do(t, r, http.MethodPost, "/api/bids", first)
	require.Equal(t, http.StatusOK, code, retried)
	assert.Equal(t, created["entryId"], retried["entryId"])
	assert.Equal(t, "active", retried["status"])

	replay := bidBody("hero", "GFIRST", "7")
	replay["payment"].(map[string]any)["transactionHash"] = first["payment"].(map[string]any)["transactionHash"]
	replay["payment"].(map[string]any)["amountPaid"] = "7"
	code, _ = do(t, r, http.MethodPost, "/api/bids", replay)
	assert.Equal(t, http.StatusConflict, code)
}

func TestTrackViewRateLimit(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 10, 0, 30, 0, time.UTC)
	store := memstore.New(memstore.WithClock(func() time.Time { return fixed }))
	r := newTestRouter(t, store, 2)

	report := map[string]any{
		"placementId": "missing", "sessionId": "s", "viewDuration": 10, "slotId": "hero",
	}
	for i := 0; i < 2; i++ {
		code, _ := do(t, r, http.MethodPost, "/api/track-view", report)
		assert.Equal(t, http.StatusNotFound, code)
	}
	code, body := do(t, r, http.MethodPost, "/api/track-view", report)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, domain.ErrRateLimited.Error(), body["error"])

	code, _ = do(t, r, http.MethodGet, "/api/queue-info/hero", nil)
	assert.Equal(t, http.StatusNotFound, code, "other routes are not limited")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h", formatDuration(time.Hour))
	assert.Equal(t, "30m", formatDuration(30*time.Minute))
	assert.Equal(t, "1h30m", formatDuration(90*time.Minute))
	assert.Equal(t, "45s", formatDuration(45*time.Second))
}
