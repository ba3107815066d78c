package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/validation"
)

// decodeJSON decodes a request body into dst, rejecting unknown fields.
// Returns false after writing the 400 response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	return true
}

// respondServiceError maps a service-layer error to an HTTP status and
// writes the JSON error envelope. The sentinel taxonomy keeps this mapping
// in one place.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, apperrors.ErrRuleNotFound),
		errors.Is(err, apperrors.ErrLinkNotFound),
		errors.Is(err, apperrors.ErrFundNotFound),
		errors.Is(err, apperrors.ErrNotificationSettingNotFound):
		response.RespondError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, apperrors.ErrDirectoryUnavailable):
		response.RespondError(w, http.StatusServiceUnavailable, "fund directory temporarily unavailable", err.Error())
	case errors.Is(err, apperrors.ErrSnapshotUnavailable),
		errors.Is(err, apperrors.ErrGatewayAuth),
		errors.Is(err, apperrors.ErrPushFailed):
		response.RespondError(w, http.StatusBadGateway, "upstream gateway failure", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
