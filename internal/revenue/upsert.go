package revenue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davidepagano/storeops-backend/pkg/logger"
)

type entityWriter interface {
	Filter(ctx context.Context, collection string, criteria map[string]any) ([]json.RawMessage, error)
	Create(ctx context.Context, collection string, record any) error
	Update(ctx context.Context, collection, id string, record any) error
}

// Upserter persists one summary record per (store_id, date), replacing
// any existing row wholesale. The job is the sole writer of this
// collection.
type Upserter struct {
	store entityWriter
	logg  *logger.Logger
}

// NewUpserter builds the persistence step.
func NewUpserter(store entityWriter, logg *logger.Logger) (*Upserter, error) {
	if store == nil {
		return nil, fmt.Errorf("entity store client required")
	}
	return &Upserter{store: store, logg: logg}, nil
}

// Upsert writes a record, updating in place when a row for the same
// (store_id, date) already exists. Errors are returned to the caller to
// record; they must never abort the batch.
func (u *Upserter) Upsert(ctx context.Context, record Record) (Action, error) {
	existing, err := u.store.Filter(ctx, Collection, map[string]any{
		"store_id": record.StoreID,
		"date":     record.Date,
	})
	if err != nil {
		return ActionError, fmt.Errorf("look up existing summary: %w", err)
	}

	if len(existing) > 0 {
		var row struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(existing[0], &row); err != nil {
			return ActionError, fmt.Errorf("decode existing summary row: %w", err)
		}
		if row.ID == "" {
			return ActionError, fmt.Errorf("existing summary row for %s/%s has no id", record.StoreID, record.Date)
		}
		if err := u.store.Update(ctx, Collection, row.ID, record); err != nil {
			return ActionError, fmt.Errorf("update summary: %w", err)
		}
		return ActionUpdated, nil
	}

	if err := u.store.Create(ctx, Collection, record); err != nil {
		return ActionError, fmt.Errorf("create summary: %w", err)
	}
	return ActionCreated, nil
}
