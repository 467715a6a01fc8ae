package cron

import (
	"context"
	"fmt"

	"github.com/davidepagano/storeops-backend/internal/revenue"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

type revenueRunner interface {
	Run(ctx context.Context, dateInput *string) (*revenue.Report, error)
}

// RevenueJobParams configure the scheduled revenue aggregation.
type RevenueJobParams struct {
	Logger *logger.Logger
	Runner revenueRunner
}

// NewRevenueJob wraps the revenue job for the daily schedule. The
// scheduled run always targets yesterday; operators re-run specific days
// through the HTTP endpoint.
func NewRevenueJob(params RevenueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("revenue runner required")
	}
	return &revenueJob{logg: params.Logger, runner: params.Runner}, nil
}

type revenueJob struct {
	logg   *logger.Logger
	runner revenueRunner
}

func (j *revenueJob) Name() string { return revenue.JobName }

func (j *revenueJob) Run(ctx context.Context) error {
	report, err := j.runner.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("revenue aggregation: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":                  report.Date,
		"stores_processed":      report.StoresProcessed,
		"items_for_date":        report.ItemsForDate,
		"unmatched_items_count": report.UnmatchedItems,
	})
	j.logg.Info(logCtx, "daily revenue summary persisted")
	return nil
}
