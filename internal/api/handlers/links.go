package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/validation"
)

// LinkHandler serves the favorite and monitor link endpoints. One handler
// covers both; the link type is fixed per route registration.
type LinkHandler struct {
	linkService *service.LinkService
	linkType    model.LinkType
}

// NewLinkHandler creates a LinkHandler for one link type.
func NewLinkHandler(linkService *service.LinkService, linkType model.LinkType) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
		linkType:    linkType,
	}
}

// LinkResponse represents one link mutation result.
type LinkResponse struct {
	Result   string `json:"result"`
	FundCode string `json:"fundCode"`
}

// Add links a fund to the requesting user.
//
// Endpoint: POST /api/favorite/{code}, POST /api/monitor/{code}
// Response: 201 Created; 200 with result "alreadyExists" for a duplicate
// Error: 401 without identity
func (h *LinkHandler) Add(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validation.ValidateFundCode(code); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
		return
	}

	_, err := h.linkService.Add(r.Context(), h.linkType, middleware.UserID(r.Context()), code)
	if errors.Is(err, apperrors.ErrDuplicateLink) {
		// Informational, not a failure: the fund is already in the list.
		response.RespondJSON(w, http.StatusOK, LinkResponse{Result: "alreadyExists", FundCode: code})
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, LinkResponse{Result: "added", FundCode: code})
}

// Remove unlinks a fund from the requesting user. Idempotent.
//
// Endpoint: DELETE /api/favorite/{code}, DELETE /api/monitor/{code}
// Response: 200 OK whether or not the link existed
func (h *LinkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validation.ValidateFundCode(code); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
		return
	}

	if err := h.linkService.Remove(r.Context(), h.linkType, middleware.UserID(r.Context()), code); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, LinkResponse{Result: "removed", FundCode: code})
}

// List returns the user's links of this type, newest first.
//
// Endpoint: GET /api/favorite, GET /api/monitor
// Response: 200 OK with the link list
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.linkService.List(r.Context(), h.linkType, middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, links)
}
