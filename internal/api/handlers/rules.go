package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/validation"
)

// RuleHandler handles monitor rule HTTP requests, including the on-demand
// evaluate-and-push endpoint.
type RuleHandler struct {
	ruleService  *service.RuleService
	alertService *service.AlertService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService *service.RuleService, alertService *service.AlertService) *RuleHandler {
	return &RuleHandler{
		ruleService:  ruleService,
		alertService: alertService,
	}
}

// Save creates or updates a rule, keyed on the presence of ruleId.
//
// Endpoint: POST /api/rule
// Response: 201 Created for an insert, 200 OK for an update
// Error: 400 on validation failure, 404 updating a rule the user does not own
func (h *RuleHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateSaveRule(req); err != nil {
		respondServiceError(w, err)
		return
	}

	rule, err := h.ruleService.Save(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if req.RuleID != nil {
		status = http.StatusOK
	}
	response.RespondJSON(w, status, rule)
}

// List returns the user's rules, optionally narrowed to one fund code.
//
// Endpoint: GET /api/rule?code=
// Response: 200 OK with the rule list
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code != "" {
		if err := validation.ValidateFundCode(code); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
			return
		}
	}

	rules, err := h.ruleService.List(r.Context(), middleware.UserID(r.Context()), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, rules)
}

// Delete removes a rule. Idempotent like link removal.
//
// Endpoint: DELETE /api/rule/{id}
// Response: 200 OK whether or not the rule existed
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")
	if err := validation.ValidateUUID(ruleID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid rule id", err.Error())
		return
	}

	if err := h.ruleService.Delete(r.Context(), middleware.UserID(r.Context()), ruleID); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

// Push evaluates a rule against the live snapshot and delivers the report.
//
// Endpoint: POST /api/rule/{id}/push
// Response: 200 OK with the evaluation (triggered flags + rendered message)
// Error: 502 when the live snapshot cannot be fetched or delivery fails
func (h *RuleHandler) Push(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")
	if err := validation.ValidateUUID(ruleID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid rule id", err.Error())
		return
	}

	eval, err := h.alertService.EvaluateAndNotify(r.Context(), middleware.UserID(r.Context()), ruleID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, eval)
}
