// Package handler provides HTTP handlers for the FuelRoute API.
package handler

import (
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. The registry may be nil, in which
// case readiness reports no provider checks.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status:  models.HealthStatusOK,
		Version: h.version,
		Checks: map[string]string{
			"build_time": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. A provider
// with an open circuit degrades readiness but does not fail it; planning
// requests will surface the failure per call.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status: models.HealthStatusOK,
		Checks: map[string]string{},
	}

	if h.registry != nil {
		for _, provider := range h.registry.GetAllHealth() {
			switch {
			case provider.IsUnhealthy():
				health.Status = models.HealthStatusDegraded
				health.Checks[provider.Name] = "circuit open"
			case provider.IsDegraded():
				health.Status = models.HealthStatusDegraded
				health.Checks[provider.Name] = "circuit half-open"
			default:
				health.Checks[provider.Name] = "ok"
			}
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}
