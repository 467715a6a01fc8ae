package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

type recordLister interface {
	List(ctx context.Context, collection string, opts entitystore.ListOptions) ([]json.RawMessage, error)
}

// Loader fetches the full store directory.
type Loader struct {
	client recordLister
	logg   *logger.Logger
}

// NewLoader builds a directory loader.
func NewLoader(client recordLister, logg *logger.Logger) (*Loader, error) {
	if client == nil {
		return nil, fmt.Errorf("entity store client required")
	}
	return &Loader{client: client, logg: logg}, nil
}

// LoadStores fetches every store. A failure here is fatal to the job:
// without the complete directory the aggregation would silently
// under-report.
func (l *Loader) LoadStores(ctx context.Context) ([]Store, error) {
	records, err := l.client.List(ctx, Collection, entitystore.ListOptions{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stores")
	}

	stores := make([]Store, 0, len(records))
	for _, raw := range records {
		var store Store
		if err := json.Unmarshal(raw, &store); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode store record")
		}
		stores = append(stores, store)
	}

	if l.logg != nil {
		l.logg.Info(l.logg.WithField(ctx, "store_count", len(stores)), "store directory loaded")
	}
	return stores, nil
}
