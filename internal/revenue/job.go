package revenue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
	"github.com/davidepagano/storeops-backend/pkg/logger"
	"github.com/davidepagano/storeops-backend/pkg/metrics"
)

// JobName labels log entries and metrics for this job.
const JobName = "daily-store-revenue"

type storeLoader interface {
	LoadStores(ctx context.Context) ([]directory.Store, error)
}

type itemFetcher interface {
	FetchRecent(ctx context.Context, limit int) ([]orderitems.OrderItem, error)
}

type recordUpserter interface {
	Upsert(ctx context.Context, record Record) (Action, error)
}

// JobParams configure the aggregation job.
type JobParams struct {
	Stores       storeLoader
	Items        itemFetcher
	Upserter     recordUpserter
	ChannelTable map[string]string
	Location     *time.Location
	FetchLimit   int
	Logger       *logger.Logger
	Metrics      *metrics.RevenueJobMetrics
}

// Job runs the full aggregation pass for one calendar day.
type Job struct {
	stores       storeLoader
	items        itemFetcher
	upserter     recordUpserter
	channelTable map[string]string
	loc          *time.Location
	fetchLimit   int
	logg         *logger.Logger
	metrics      *metrics.RevenueJobMetrics
	now          func() time.Time
}

// NewJob wires the aggregation pipeline.
func NewJob(params JobParams) (*Job, error) {
	if params.Stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item fetcher required")
	}
	if params.Upserter == nil {
		return nil, fmt.Errorf("upserter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	limit := params.FetchLimit
	if limit <= 0 {
		limit = orderitems.DefaultFetchLimit
	}
	return &Job{
		stores:       params.Stores,
		items:        params.Items,
		upserter:     params.Upserter,
		channelTable: params.ChannelTable,
		loc:          loc,
		fetchLimit:   limit,
		logg:         params.Logger,
		metrics:      params.Metrics,
		now:          time.Now,
	}, nil
}

// Run executes one aggregation pass. The store load, the item fetch and
// an invalid date input are the only fatal outcomes; past those gates the
// job always completes, recording per-store persistence failures in the
// report instead of aborting the batch.
func (j *Job) Run(ctx context.Context, dateInput *string) (*Report, error) {
	start := j.now()
	ctx = j.logg.WithJob(ctx, JobName)

	day, err := ResolveTargetDate(dateInput, j.now, j.loc)
	if err != nil {
		j.metrics.IncFailure(JobName)
		return nil, err
	}
	dateKey := day.Format(DateLayout)
	ctx = j.logg.WithField(ctx, "date", dateKey)
	j.logg.Info(ctx, "aggregation run starting")

	stores, err := j.stores.LoadStores(ctx)
	if err != nil {
		j.metrics.IncFailure(JobName)
		return nil, err
	}
	indices := directory.BuildIndices(stores, j.channelTable)

	fetched, err := j.items.FetchRecent(ctx, j.fetchLimit)
	if err != nil {
		j.metrics.IncFailure(JobName)
		return nil, err
	}

	forDate, skipped := FilterByDay(fetched, day, j.loc)
	grouped, unmatched := ResolveAndGroup(forDate, indices)

	// Stable result order regardless of directory order.
	sorted := make([]directory.Store, len(stores))
	copy(sorted, stores)
	sort.Slice(sorted, func(i, k int) bool { return sorted[i].Name < sorted[k].Name })

	results := make([]Result, 0, len(sorted))
	var persistErrs []error
	for _, store := range sorted {
		storeCtx := j.logg.WithStore(ctx, store.ID, store.Name)
		record := Aggregate(store, day, grouped[store.ID])
		action, err := j.upserter.Upsert(storeCtx, record)
		if err != nil {
			persistErrs = append(persistErrs, fmt.Errorf("store %s: %w", store.Name, err))
			failed := emptyRecord(store, day)
			results = append(results, Result{Action: ActionError, Record: failed, Error: err.Error()})
			continue
		}
		j.logg.Debug(j.logg.WithField(storeCtx, "action", string(action)), "store aggregate persisted")
		results = append(results, Result{Action: action, Record: record})
	}

	if combined := multierr.Combine(persistErrs...); combined != nil {
		errCtx := j.logg.WithField(ctx, "failed_stores", len(persistErrs))
		j.logg.Error(errCtx, "some stores failed to persist", combined)
	}

	j.metrics.ObserveRun(len(fetched), len(forDate), len(unmatched), skipped)
	j.metrics.ObserveDuration(JobName, j.now().Sub(start))
	j.metrics.IncSuccess(JobName)

	doneCtx := j.logg.WithFields(ctx, map[string]any{
		"stores_processed":       len(sorted),
		"total_items_fetched":    len(fetched),
		"items_for_date":         len(forDate),
		"unmatched_items_count":  len(unmatched),
		"skipped_bad_timestamps": skipped,
	})
	j.logg.Info(doneCtx, "aggregation run complete")

	return &Report{
		Success:           true,
		Message:           fmt.Sprintf("daily store revenue aggregated for %s", dateKey),
		Date:              dateKey,
		StoresProcessed:   len(sorted),
		TotalItemsFetched: len(fetched),
		ItemsForDate:      len(forDate),
		UnmatchedItems:    len(unmatched),
		Results:           results,
	}, nil
}
