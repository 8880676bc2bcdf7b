package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/internal/fulfillment"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
)

// PendingOrdersJobParams configure the pending order sweep.
type PendingOrdersJobParams struct {
	Logger      *logger.Logger
	Fulfillment fulfillment.Service
}

// NewPendingOrdersJob builds the job that drains the pending order backlog.
func NewPendingOrdersJob(params PendingOrdersJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Fulfillment == nil {
		return nil, fmt.Errorf("fulfillment service required")
	}
	return &pendingOrdersJob{
		logg: params.Logger,
		svc:  params.Fulfillment,
	}, nil
}

type pendingOrdersJob struct {
	logg *logger.Logger
	svc  fulfillment.Service
}

func (j *pendingOrdersJob) Name() string { return "pending-orders" }

func (j *pendingOrdersJob) Run(ctx context.Context) error {
	// uuid.Nil sweeps every user's backlog
	result, err := j.svc.ProcessPendingBatch(ctx, uuid.Nil)
	if err != nil {
		return fmt.Errorf("process pending batch: %w", err)
	}

	failed := 0
	for _, outcome := range result.Results {
		if !outcome.Success {
			failed++
		}
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"processed": result.Processed,
		"failed":    failed,
	})
	j.logg.Info(logCtx, "pending order sweep complete")
	return nil
}
