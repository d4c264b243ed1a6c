package handler

import (
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/middleware"
	"github.com/swift-add/website/internal/service"
)

// Handler holds all dependencies needed by the HTTP routes.
type Handler struct {
	cfg        *config.Config
	slots      *service.SlotService
	queue      *service.QueueService
	activation *service.ActivationService
	tracker    *service.TrackerService
	ledger     *service.LedgerService
	limiter    middleware.RateLimiter
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg        *config.Config
	Slots      *service.SlotService
	Queue      *service.QueueService
	Activation *service.ActivationService
	Tracker    *service.TrackerService
	Ledger     *service.LedgerService
	Limiter    middleware.RateLimiter
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:        deps.Cfg,
		slots:      deps.Slots,
		queue:      deps.Queue,
		activation: deps.Activation,
		tracker:    deps.Tracker,
		ledger:     deps.Ledger,
		limiter:    deps.Limiter,
	}
}
