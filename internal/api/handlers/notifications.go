package handlers

import (
	"net/http"
	"strconv"

	"github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
	"github.com/fundwatch/fund-monitor-backend/internal/validation"
)

// NotificationHandler handles delivery target and push history requests.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// Save replaces the user's delivery target.
//
// Endpoint: PUT /api/notification
// Response: 200 OK
// Error: 400 on validation failure, 401 without identity
func (h *NotificationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.NotificationSettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateNotificationSetting(req); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.notificationService.SaveSetting(r.Context(), middleware.UserID(r.Context()), req); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"result": "saved"})
}

// Get returns the user's delivery target with the webhook decrypted.
//
// Endpoint: GET /api/notification
// Response: 200 OK with the setting
// Error: 404 when no target is configured
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.notificationService.GetSetting(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, setting)
}

// Log returns the user's recent delivery attempts.
//
// Endpoint: GET /api/notification/log?limit=
// Response: 200 OK with the push log, newest first
func (h *NotificationHandler) Log(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.notificationService.ListPushLogs(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}
