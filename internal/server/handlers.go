package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pgale/abn-tracker/internal/common"
	"github.com/pgale/abn-tracker/internal/query"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.queries.DashboardStats(r.Context())
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleSearch handles GET /v1/entities
// Query params: q, entity_type, state, postcode, gst, page, page_size.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := 50
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > 200 {
		pageSize = 200
	}

	params := query.SearchParams{
		Query:      strings.TrimSpace(q.Get("q")),
		EntityType: q.Get("entity_type"),
		State:      q.Get("state"),
		Postcode:   q.Get("postcode"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if v := q.Get("gst"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "gst must be true or false")
			return
		}
		params.GSTRegistered = &b
	}

	res, err := s.queries.SearchEntities(r.Context(), params)
	if err != nil {
		s.logger.Error("entity search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":     res.Total,
		"page":      page,
		"page_size": pageSize,
		"results":   res.Results,
	})
}

// abnParam normalizes and validates the {abn} path parameter. On failure it
// has already written a 400 response.
func (s *Server) abnParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	abn := common.NormalizeABN(chi.URLParam(r, "abn"))
	v := common.NewValidator()
	v.Field("abn", abn, common.Required, common.ABN)
	if v.HasErrors() {
		writeError(w, http.StatusBadRequest, v.ErrorMessage())
		return "", false
	}
	return abn, true
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	abn, ok := s.abnParam(w, r)
	if !ok {
		return
	}

	detail, err := s.queries.EntityDetail(r.Context(), abn)
	if err != nil {
		s.logger.Error("entity detail failed", "abn", abn, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load entity")
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no entity with ABN %s", abn))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	abn, ok := s.abnParam(w, r)
	if !ok {
		return
	}

	xlsx, err := s.exporter.ExportEntityXLSX(r.Context(), abn)
	if err != nil {
		s.logger.Error("entity export failed", "abn", abn, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	if xlsx == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no entity with ABN %s", abn))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ABN_"+abn+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(xlsx)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}

func (s *Server) handleEntityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.queries.EntityTypes(r.Context())
	if err != nil {
		s.logger.Error("entity types query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load entity types")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity_types": types})
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.queries.States(r.Context())
	if err != nil {
		s.logger.Error("states query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load states")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": states})
}

func (s *Server) handlePostcodes(w http.ResponseWriter, r *http.Request) {
	postcodes, err := s.queries.Postcodes(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		s.logger.Error("postcodes query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load postcodes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"postcodes": postcodes})
}

// handleAnalytics serves the unfiltered block by default and the filtered
// block when any of state, postcode or entity_type is present.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.Filter{
		State:      q.Get("state"),
		Postcode:   q.Get("postcode"),
		EntityType: q.Get("entity_type"),
	}

	if f.State == "" && f.Postcode == "" && f.EntityType == "" {
		data, err := s.queries.Analytics(r.Context())
		if err != nil {
			s.logger.Error("analytics query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load analytics")
			return
		}
		writeJSON(w, http.StatusOK, data)
		return
	}

	data, err := s.queries.AnalyticsFiltered(r.Context(), f)
	if err != nil {
		s.logger.Error("filtered analytics query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleRegistrationsByYear(w http.ResponseWriter, r *http.Request) {
	rows, err := s.queries.RegistrationsByYear(r.Context())
	if err != nil {
		s.logger.Error("registrations by year query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load registrations by year")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"by_year": rows})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.Filter{
		State:      q.Get("state"),
		Postcode:   q.Get("postcode"),
		EntityType: q.Get("entity_type"),
	}

	rows, err := s.queries.MapData(r.Context(), f)
	if err != nil {
		s.logger.Error("map query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load map data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(rows),
		"entities": rows,
	})
}
