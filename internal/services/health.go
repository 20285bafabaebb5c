package services

import (
	"context"
	"fmt"

	"github.com/localnerve/storefront/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Cache        string            `json:"cache"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(message string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage += "; " + message
	}
}

// HealthCheck performs a comprehensive health check of the service.
// cache may be nil when no redis address is configured.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, cache *ProductCache) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail(fmt.Sprintf("Database connection error: %v", err))
		zap.L().Warn("Health check failed - database connection", zap.Error(err))
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail(fmt.Sprintf("Database ping failed: %v", err))
		zap.L().Warn("Health check failed - database ping", zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// Check the product cache
	if cache == nil {
		result.Cache = "disabled"
	} else if err := cache.Ping(ctx); err != nil {
		result.Cache = "unreachable"
		result.Details["cache_error"] = err.Error()
		result.fail(fmt.Sprintf("Cache ping failed: %v", err))
		zap.L().Warn("Health check failed - cache ping", zap.Error(err))
	} else {
		result.Cache = "ok"
		result.Details["cache_addr"] = cfg.RedisAddr
	}

	if result.Status == "healthy" {
		zap.L().Debug("Health check passed - all systems operational")
	}

	return result
}
