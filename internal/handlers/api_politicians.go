package handlers

import (
	"net/http"
	"strings"

	"github.com/poliscope/poliscope/internal/api"
	"github.com/poliscope/poliscope/internal/database"
)

// handlePoliticians lists politicians with pagination and optional name filter
func (h *Router) handlePoliticians(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params := api.ParsePagination(r)

	query := h.db.Model(&database.Politician{})
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
	}
	if dept := strings.TrimSpace(r.URL.Query().Get("department")); dept != "" {
		mandates := h.db.Model(&database.Mandate{}).
			Select("politician_id").
			Where("UPPER(department_code) = ?", strings.ToUpper(dept))
		query = query.Where("id IN (?)", mandates)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logHandlerError("count politicians", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list politicians")
		return
	}

	var politicians []database.Politician
	err := query.Preload("Mandates").
		Order("last_name ASC, first_name ASC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&politicians).Error
	if err != nil {
		logHandlerError("list politicians", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list politicians")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
		Data: politicians,
		Pagination: api.PaginationMeta{
			Page:       params.Page,
			PerPage:    params.PerPage,
			Total:      total,
			TotalPages: params.TotalPages(total),
		},
	})
}

// handlePoliticianByID returns a single politician with mandates, external ids and affairs
func (h *Router) handlePoliticianByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/politicians/")
	if id == "" || strings.Contains(id, "/") {
		api.RespondError(w, http.StatusNotFound, "Politician not found")
		return
	}

	var politician database.Politician
	err := h.db.Preload("Mandates").
		Preload("ExternalIDs").
		Preload("Affairs").
		Preload("Affairs.Sources").
		First(&politician, "id = ?", id).Error
	if err != nil {
		api.RespondError(w, http.StatusNotFound, "Politician not found")
		return
	}

	api.RespondJSON(w, http.StatusOK, politician)
}
