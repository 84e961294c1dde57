package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/poliscope/poliscope/internal/api"
	"github.com/poliscope/poliscope/internal/identity"
)

// handleDecisions returns the full decision chain for a (source, source_id)
// pair, superseded rows included.
func (h *Router) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	source := strings.TrimSpace(r.URL.Query().Get("source"))
	sourceID := strings.TrimSpace(r.URL.Query().Get("source_id"))
	if source == "" || sourceID == "" {
		api.RespondError(w, http.StatusBadRequest, "source and source_id query parameters are required")
		return
	}

	history, err := h.decisions.History(source, sourceID)
	if err != nil {
		logHandlerError("decision history", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load decisions")
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"source":    source,
		"source_id": sourceID,
		"decisions": history,
	})
}

type supersedeRequest struct {
	Judgement    string  `json:"judgement"`
	PoliticianID string  `json:"politician_id,omitempty"`
	Confidence   float64 `json:"confidence"`
	Actor        string  `json:"actor"`
	Reason       string  `json:"reason,omitempty"`
}

// handleDecisionSupersede records a human correction: a new decision entry
// that supersedes an existing one. Handles POST /api/decisions/{id}/supersede.
func (h *Router) handleDecisionSupersede(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/decisions/")
	idStr, ok := strings.CutSuffix(path, "/supersede")
	if !ok {
		api.RespondError(w, http.StatusNotFound, "Not found")
		return
	}
	decisionID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid decision id")
		return
	}

	var req supersedeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	judgement := identity.Judgement(req.Judgement)
	if !validJudgement(judgement) {
		api.RespondError(w, http.StatusBadRequest, "judgement must be one of: same, not_same, undecided")
		return
	}
	if req.Actor == "" {
		api.RespondError(w, http.StatusBadRequest, "actor is required")
		return
	}
	if judgement == identity.JudgementSame && req.PoliticianID == "" {
		api.RespondError(w, http.StatusBadRequest, "politician_id is required for a same judgement")
		return
	}

	evidence := map[string]interface{}{"manual": true}
	if req.Reason != "" {
		evidence["reason"] = req.Reason
	}

	replacement := &identity.Decision{
		PoliticianID: req.PoliticianID,
		Judgement:    judgement,
		Confidence:   req.Confidence,
		Evidence:     evidence,
		Actor:        req.Actor,
	}

	stored, err := h.decisions.Supersede(uint(decisionID), replacement)
	if err != nil {
		logHandlerError("supersede decision", err)
		api.RespondError(w, http.StatusConflict, "Failed to supersede decision: "+err.Error())
		return
	}

	api.RespondJSON(w, http.StatusCreated, stored)
}

func validJudgement(j identity.Judgement) bool {
	for _, v := range identity.ValidJudgements() {
		if j == v {
			return true
		}
	}
	return false
}
