// Package handler provides HTTP handlers for the TripCast API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/api/response"
	"github.com/tripcast/tripcast/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pool      *pgxpool.Pool
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. Pool and registry may be nil when
// the service runs without a database or without registered providers.
func NewOpsHandler(version, buildTime string, pool *pgxpool.Pool, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pool:      pool,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			status = models.HealthStatusFail
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}

	code := http.StatusOK
	if status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	overall := models.HealthStatusOK

	var subsystems []models.SubsystemStatus
	dbStatus := models.HealthStatusOK
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			dbStatus = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			detail := err.Error()
			subsystems = append(subsystems, models.SubsystemStatus{
				Name: "postgres", Status: dbStatus, Detail: &detail,
			})
		} else {
			subsystems = append(subsystems, models.SubsystemStatus{
				Name: "postgres", Status: dbStatus,
			})
		}
	}

	var providers []models.ProviderStatus
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			ps := models.ProviderStatus{
				Provider: ph.Name,
				Status:   models.HealthStatusOK,
			}
			switch {
			case ph.IsUnhealthy():
				ps.Status = models.HealthStatusFail
				overall = models.HealthStatusDegraded
			case ph.IsDegraded():
				ps.Status = models.HealthStatusDegraded
				overall = models.HealthStatusDegraded
			}
			if ph.LastSuccessAt != nil {
				ts := models.Timestamp(*ph.LastSuccessAt)
				ps.LastSuccessAt = &ts
			}
			if ph.LastFailureAt != nil {
				ts := models.Timestamp(*ph.LastFailureAt)
				ps.LastFailureAt = &ts
			}
			if ph.LastError != "" {
				msg := ph.LastError
				ps.Message = &msg
			}
			providers = append(providers, ps)
		}
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}

// Version handles GET /v1/ops/version - build information.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.VersionInfo{
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}
