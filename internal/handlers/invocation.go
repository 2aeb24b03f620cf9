package handlers

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/dto"
)

// Invoker is the single entry point used by one-shot and scheduled runs.
type Invoker struct {
	pipeline portssvc.PipelineSvcFacade
}

// NewInvoker creates a new Invoker.
func NewInvoker(pipeline portssvc.PipelineSvcFacade) *Invoker {
	return &Invoker{pipeline: pipeline}
}

// HandleRequest ignores payload and runs the pipeline over the default directory.
// It returns dto.ResultOK whenever the run completes, including runs where files
// failed; per-file results only go to the outcome reporters.
func (i *Invoker) HandleRequest(ctx context.Context, _ map[string]any) (string, error) {
	if _, err := i.pipeline.Run(ctx, i.pipeline.DefaultDirectory()); err != nil {
		return "", fmt.Errorf("ingest run failed: %w", err)
	}
	return dto.ResultOK, nil
}

// Run adapts HandleRequest to the scheduler.
func (i *Invoker) Run(ctx context.Context) error {
	_, err := i.HandleRequest(ctx, nil)
	return err
}
