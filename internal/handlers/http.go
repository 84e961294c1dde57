package handlers

import (
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/api"
	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
	"github.com/poliscope/poliscope/internal/notify"
	"github.com/poliscope/poliscope/internal/refdata"
	"github.com/poliscope/poliscope/internal/sources"
)

// Router holds the wired services behind the HTTP API
type Router struct {
	db         *gorm.DB
	resolver   *identity.Resolver
	persons    *database.PersonStore
	decisions  *database.DecisionLogStore
	reconciler *affairs.Reconciler
	registry   *sources.Registry
	refdata    *refdata.Tables
	hub        *ReviewHub
	notifier   *notify.Notifier
}

// NewRouter creates the API router. A disabled or nil notifier is fine;
// its methods are no-ops.
func NewRouter(
	db *gorm.DB,
	resolver *identity.Resolver,
	persons *database.PersonStore,
	decisions *database.DecisionLogStore,
	reconciler *affairs.Reconciler,
	registry *sources.Registry,
	tables *refdata.Tables,
	hub *ReviewHub,
	notifier *notify.Notifier,
) *Router {
	return &Router{
		db:         db,
		resolver:   resolver,
		persons:    persons,
		decisions:  decisions,
		reconciler: reconciler,
		registry:   registry,
		refdata:    tables,
		hub:        hub,
		notifier:   notifier,
	}
}

// SetupRoutes configures all HTTP routes
func (h *Router) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/api/politicians", h.handlePoliticians)
	mux.HandleFunc("/api/politicians/", h.handlePoliticianByID)

	mux.HandleFunc("/api/affairs", h.handleAffairs)
	mux.HandleFunc("/api/affairs/duplicates", h.handleAffairDuplicates)
	mux.HandleFunc("/api/affairs/reconcile", h.handleReconcile)

	mux.HandleFunc("/api/decisions", h.handleDecisions)
	mux.HandleFunc("/api/decisions/", h.handleDecisionSupersede)

	// Record ingestion: /webhook/records/{source}
	mux.HandleFunc("/webhook/records/", h.handleRecordsWebhook)

	if h.hub != nil {
		mux.HandleFunc("/ws/review", h.hub.HandleWS)
	}
}

// handleHealth returns a simple health check response
func (h *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"sources":     h.registry.Sources(),
		"departments": h.refdata.Departments(),
	})
}

func logHandlerError(where string, err error) {
	log.Printf("handlers: %s: %v", where, err)
}
