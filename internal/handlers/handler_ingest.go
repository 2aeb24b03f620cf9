package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/dto"
	"github.com/SscSPs/sftp_txn_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestHandler handles HTTP requests that trigger pipeline runs.
type ingestHandler struct {
	pipeline portssvc.PipelineRunnerSvc
}

// newIngestHandler creates a new ingestHandler.
func newIngestHandler(pipeline portssvc.PipelineRunnerSvc) *ingestHandler {
	return &ingestHandler{pipeline: pipeline}
}

// registerIngestRoutes registers routes related to pipeline runs.
func registerIngestRoutes(rg *gin.RouterGroup, pipeline portssvc.PipelineRunnerSvc, extra ...gin.HandlerFunc) {
	h := newIngestHandler(pipeline)

	ingest := rg.Group("/ingest", extra...)
	{
		ingest.POST("/run", h.runIngest)
	}
}

// runIngest runs the pipeline synchronously. The body is optional.
func (h *ingestHandler) runIngest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid ingest request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := h.pipeline.Run(c.Request.Context(), req.Directory)
	if err != nil {
		logger.Error("Ingest run failed", slog.String("error", err.Error()))
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrConnection) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToRunIngestResponse(summary))
}
