package handlers

import (
	"net/http"
	"strings"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/api"
	"github.com/poliscope/poliscope/internal/database"
)

// handleAffairs lists affairs with pagination and optional filters
func (h *Router) handleAffairs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params := api.ParsePagination(r)

	query := h.db.Model(&database.Affair{})
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if politicianID := strings.TrimSpace(r.URL.Query().Get("politician_id")); politicianID != "" {
		query = query.Where("politician_id = ?", politicianID)
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if super := strings.TrimSpace(r.URL.Query().Get("supercategory")); super != "" {
		categories := h.refdata.CategoriesIn(super)
		if len(categories) == 0 {
			api.RespondError(w, http.StatusBadRequest, "Unknown supercategory: "+super)
			return
		}
		query = query.Where("category IN ?", categories)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logHandlerError("count affairs", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list affairs")
		return
	}

	var list []database.Affair
	err := query.Preload("Sources").
		Order("case_date DESC, id ASC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&list).Error
	if err != nil {
		logHandlerError("list affairs", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list affairs")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
		Data: list,
		Pagination: api.PaginationMeta{
			Page:       params.Page,
			PerPage:    params.PerPage,
			Total:      total,
			TotalPages: params.TotalPages(total),
		},
	})
}

// handleAffairDuplicates returns potential duplicate affair pairs without merging
func (h *Router) handleAffairDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pairs, err := h.reconciler.FindPotentialDuplicates()
	if err != nil {
		logHandlerError("find duplicates", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to detect duplicates")
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(pairs),
		"duplicates": pairs,
	})
}

type reconcileRequest struct {
	AutoMerge bool `json:"auto_merge"`
	DryRun    bool `json:"dry_run"`
}

// handleReconcile runs one reconciliation pass
func (h *Router) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req reconcileRequest
	if r.ContentLength != 0 {
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	report, err := h.reconciler.Reconcile(affairs.ReconcileOptions{
		AutoMerge: req.AutoMerge,
		DryRun:    req.DryRun,
	})
	if err != nil {
		logHandlerError("reconcile", err)
		api.RespondError(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}

	if !report.DryRun && report.Merged > 0 {
		h.notifier.MergeReport(report)
	}

	api.RespondJSON(w, http.StatusOK, report)
}
