package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// HealthCheckFunc pings one dependency
type HealthCheckFunc func(ctx context.Context) error

// HealthHandler reports whether the store and cache answer
type HealthHandler struct {
	logger *logging.SafeLogger
	checks map[string]HealthCheckFunc
}

// NewHealthHandler creates a health handler over the named checks
func NewHealthHandler(logger *logging.SafeLogger, checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		checks: checks,
	}
}

// HealthCheck godoc
// @Summary Verificação de saúde
// @Description Verifica o banco de dados e, quando configurado, o Redis.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Todos os serviços estão saudáveis"
// @Failure 503 {object} HealthResponse "Um ou mais serviços estão indisponíveis"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"service.name": name})
			h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[name] = "unhealthy"
			continue
		}
		health.Services[name] = "healthy"
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
