package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/middleware"
)

// Routes builds the public router. Middleware order: request id and real IP
// first so that logging and rate limiting see them.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging())
	r.Use(middleware.Recover())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chimw.Timeout(config.RequestTimeout))

	r.Get("/health", h.health)

	trackLimit := middleware.RateLimit(h.limiter, "track-view", h.cfg.TrackViewRateLimit,
		func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, r, domain.ErrRateLimited)
		})

	r.Route("/api", func(r chi.Router) {
		r.Get("/slots", h.listSlots)
		r.Post("/slots", h.createSlot)
		r.Get("/slots/{slotId}", h.getSlot)

		r.Post("/bids", h.submitBid)
		r.Post("/quote", h.quote)
		r.Get("/queue-info/{slotId}", h.queueInfo)
		r.Post("/process-queue", h.processQueue)
		r.Get("/ads/{slotId}", h.currentAd)

		r.With(trackLimit).Post("/track-view", h.trackView)
		r.Post("/claim-credits", h.claimCredits)
		r.Get("/credits/{walletAddress}", h.credits)
		r.Get("/credits/{walletAddress}/history", h.creditHistory)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
