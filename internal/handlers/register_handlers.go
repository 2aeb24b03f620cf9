package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/middleware"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils"
	"github.com/SscSPs/sftp_txn_ingest/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RouteDeps are the collaborators the HTTP surface needs besides the services.
type RouteDeps struct {
	Metrics http.Handler // serves GET /metrics; nil disables the route
	Limiter *limiter.Limiter
	Posthog *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	setupAPIV1Routes(r, cfg, services, deps)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.Server.JWTSecret), middleware.PosthogMiddleware(deps.Posthog))

	var runLimit []gin.HandlerFunc
	if deps.Limiter != nil {
		runLimit = append(runLimit, middleware.RateLimit(deps.Limiter))
	}

	registerIngestRoutes(v1, services.Pipeline, runLimit...)
	registerLedgerRoutes(v1, services.Ledger)
	registerTransactionRoutes(v1, services.Transactions)
}
