package handlers

import (
	"net/http"

	"github.com/fundwatch/fund-monitor-backend/internal/api/response"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	// Check database health
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	// System is healthy
	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// VersionResponse represents the version check response
type VersionResponse struct {
	Version string `json:"version"`
}

// Version returns the application version.
//
// Endpoint: GET /api/system/version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, VersionResponse{
		Version: h.systemService.CheckVersion(),
	})
}
