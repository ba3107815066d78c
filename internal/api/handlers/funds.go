package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/validation"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// FundHandler handles fund listing and detail HTTP requests
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// List serves one filtered, paginated, NAV-enriched page of funds.
//
// Endpoint: GET /api/fund?page=&limit=&allow=&deny=
// allow/deny are comma-separated substrings matched against the fund's
// "{name} - {type}" description.
// Response: 200 OK with a FundPage
// Error: 503 when the upstream directory is unavailable
func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	page, err := h.fundService.List(r.Context(), params, middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// Detail serves the gateway's richer per-fund view.
//
// Endpoint: GET /api/fund/{code}
// Response: 200 OK with a FundDetail
// Error: 404 for an unknown code, 502 when the gateway is unreachable
func (h *FundHandler) Detail(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validation.ValidateFundCode(code); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
		return
	}

	detail, err := h.fundService.Detail(r.Context(), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// parseListParams reads the list query string. Out-of-range values clamp to
// defaults rather than erroring; the endpoint is browsed by a UI pager.
func parseListParams(r *http.Request) request.ListFundsParams {
	params := request.ListFundsParams{
		Page:  1,
		Limit: defaultPageLimit,
	}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		params.Limit = limit
	}

	params.Allow = splitFilter(r.URL.Query().Get("allow"))
	params.Deny = splitFilter(r.URL.Query().Get("deny"))

	return params
}

// splitFilter splits a comma-separated filter list, dropping empty terms.
func splitFilter(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if term := strings.TrimSpace(p); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
