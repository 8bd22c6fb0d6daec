// Package models provides request and response models for the FuelRoute API.
package models

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// HealthResponse is the body of the ops health and readiness endpoints.
type HealthResponse struct {
	Status  HealthStatus      `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}
