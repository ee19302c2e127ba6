package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zots0127/registry/internal/domain/entities"
	"github.com/zots0127/registry/internal/domain/repository"
)

// HealthRepositoryImpl implements HealthRepository
type HealthRepositoryImpl struct {
	db *sql.DB
}

// NewHealthRepository creates a new health repository
func NewHealthRepository(db *sql.DB) repository.HealthRepository {
	return &HealthRepositoryImpl{db: db}
}

// CheckHealth performs a comprehensive health check
func (h *HealthRepositoryImpl) CheckHealth(ctx context.Context) (*entities.HealthCheck, error) {
	checks := make(map[string]entities.CheckResult)

	checks["database"] = h.CheckDatabase(ctx)
	checks["registry"] = h.checkRegistry(ctx)

	overallStatus := entities.HealthStatusUp
	for _, check := range checks {
		if check.Status == entities.HealthStatusDown {
			overallStatus = entities.HealthStatusDown
			break
		} else if check.Status == entities.HealthStatusPartial {
			overallStatus = entities.HealthStatusPartial
		}
	}

	return &entities.HealthCheck{
		Status: overallStatus,
		Checks: checks,
	}, nil
}

// CheckDatabase verifies database connectivity and health
func (h *HealthRepositoryImpl) CheckDatabase(ctx context.Context) entities.CheckResult {
	if h.db == nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: "Database connection is nil",
		}
	}

	if err := h.db.PingContext(ctx); err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("Database ping failed: %v", err),
		}
	}

	stats := h.db.Stats()
	details := map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": stats.MaxOpenConnections,
	}

	status := entities.HealthStatusUp
	message := "Database is healthy"

	// Warning if too many connections are in use
	if stats.InUse > stats.MaxOpenConnections*8/10 {
		status = entities.HealthStatusPartial
		message = "High database connection usage"
	}

	return entities.CheckResult{
		Status:  status,
		Message: message,
		Details: details,
	}
}

// checkRegistry verifies the registry tables are reachable.
func (h *HealthRepositoryImpl) checkRegistry(ctx context.Context) entities.CheckResult {
	var files, bytes int64
	err := h.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files").Scan(&files, &bytes)
	if err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("Registry tables not readable: %v", err),
		}
	}

	return entities.CheckResult{
		Status:  entities.HealthStatusUp,
		Message: "Registry is healthy",
		Details: map[string]interface{}{
			"live_files":  files,
			"total_bytes": bytes,
		},
	}
}

// IsReady checks if the service is ready to handle requests
func (h *HealthRepositoryImpl) IsReady(ctx context.Context) (bool, string) {
	if err := h.db.PingContext(ctx); err != nil {
		return false, fmt.Sprintf("Database not ready: %v", err)
	}
	return true, "Service is ready"
}
