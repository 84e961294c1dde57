package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poliscope/poliscope/internal/api"
	"github.com/poliscope/poliscope/internal/database"
	"github.com/poliscope/poliscope/internal/identity"
)

const maxRecordPayloadBytes = 10 << 20

// recordOutcome is the per-record result of one ingested observation
type recordOutcome struct {
	SourceRef    string             `json:"source_ref"`
	Decision     identity.Judgement `json:"decision,omitempty"`
	PoliticianID string             `json:"politician_id,omitempty"`
	Confidence   float64            `json:"confidence,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// handleRecordsWebhook ingests a raw sync payload for one source:
// POST /webhook/records/{source}. The payload is normalized through the
// source's adapter and each observation is resolved against the canonical
// politician store.
func (h *Router) handleRecordsWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sourceName := strings.TrimPrefix(r.URL.Path, "/webhook/records/")
	if sourceName == "" || strings.Contains(sourceName, "/") {
		api.RespondError(w, http.StatusNotFound, "Unknown source")
		return
	}

	adapter, err := h.registry.Get(sourceName)
	if err != nil {
		api.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxRecordPayloadBytes))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	observations, err := adapter.Parse(payload)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse %s payload: %v", adapter.Source(), err))
		return
	}

	settings, err := database.GetOrCreateResolutionSettings(h.db)
	if err != nil {
		logHandlerError("load settings", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	truncated := false
	if settings.MaxObservationsPerRun > 0 && len(observations) > settings.MaxObservationsPerRun {
		observations = observations[:settings.MaxObservationsPerRun]
		truncated = true
	}

	outcomes := make([]recordOutcome, 0, len(observations))
	var resolved, created, review, failed int
	for _, obs := range observations {
		outcome := h.ingestObservation(obs)
		if outcome.Error != "" {
			failed++
		} else {
			switch outcome.Decision {
			case identity.JudgementSame:
				resolved++
			case identity.JudgementNew:
				created++
			case identity.JudgementUndecided:
				review++
			}
		}
		outcomes = append(outcomes, outcome)
	}

	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"source":       adapter.Source(),
		"received":     len(observations),
		"truncated":    truncated,
		"resolved":     resolved,
		"created":      created,
		"needs_review": review,
		"failed":       failed,
		"records":      outcomes,
	})
}

// ingestObservation resolves one observation and applies the outcome:
// confirmed matches link the external ref, new identities create a
// politician, undecided matches go to the review stream.
func (h *Router) ingestObservation(obs identity.Observation) recordOutcome {
	outcome := recordOutcome{SourceRef: obs.SourceRef}

	if err := obs.Validate(); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	res, err := h.resolver.Resolve(obs)
	if err != nil {
		logHandlerError("resolve "+obs.Source+"/"+obs.SourceRef, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Decision = res.Decision
	outcome.Confidence = res.Confidence

	switch res.Decision {
	case identity.JudgementSame:
		outcome.PoliticianID = res.PoliticianID
		if err := h.persons.LinkExternalRef(obs.Source, obs.SourceRef, res.PoliticianID); err != nil {
			logHandlerError("link external ref", err)
			outcome.Error = err.Error()
		}

	case identity.JudgementNew:
		politician, err := h.persons.CreateFromObservation(obs)
		if err != nil {
			logHandlerError("create politician", err)
			outcome.Error = err.Error()
			return outcome
		}
		outcome.PoliticianID = politician.ID
		if err := h.persons.LinkExternalRef(obs.Source, obs.SourceRef, politician.ID); err != nil {
			logHandlerError("link external ref", err)
			outcome.Error = err.Error()
		}

	case identity.JudgementUndecided:
		if h.hub != nil {
			h.hub.Broadcast(ReviewEvent{
				Type:        "review_needed",
				Observation: obs,
				Result:      res,
				At:          time.Now().UTC(),
			})
		}
		h.notifier.ReviewNeeded(obs, res)
	}

	return outcome
}
