package handlers

import (
	"net/http"

	"github.com/ndewijer/selic-correction-backend/internal/api/response"
	"github.com/ndewijer/selic-correction-backend/internal/service"
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
	Status     string `json:"status"`
	RateSource string `json:"rate_source"`
	Error      string `json:"error,omitempty"`
}

// Health checks that the service is up and the SELIC rate source answers.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the rate source cannot be reached
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "unhealthy",
			RateSource: "unreachable",
			Error:      err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		RateSource: "reachable",
	})
}

// Version handles GET requests to retrieve version information and the calculation
// settings in effect.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.systemService.CheckVersion())
}
