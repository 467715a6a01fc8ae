// Package orderitems fetches raw point-of-sale order-item records. The
// upstream contract is loosely specified, so this is the most defensive
// boundary in the job: the response shape is validated before anything
// downstream sees it.
package orderitems

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

// Collection is the entity-store collection holding order items.
const Collection = "OrderItem"

// DefaultFetchLimit comfortably covers one day's volume from all stores.
const DefaultFetchLimit = 10000

// OrderItem is one POS line item, immutable once ingested. Most fields
// are optional upstream; absence is data, not an error.
type OrderItem struct {
	ID            string  `json:"id"`
	ModifiedDate  string  `json:"modifiedDate"`
	StoreID       string  `json:"store_id"`
	StoreName     string  `json:"store_name"`
	Channel       string  `json:"printedOrderItemChannel"`
	Order         string  `json:"order"`
	FinalPrice    float64 `json:"finalPrice"`
	NetFinalPrice float64 `json:"finalPriceWithSessionDiscountsAndSurcharges"`
	SourceApp     string  `json:"sourceApp"`
	SourceType    string  `json:"sourceType"`
	MoneyTypeName string  `json:"moneyTypeName"`
	SaleTypeName  string  `json:"saleTypeName"`
}

type recordLister interface {
	List(ctx context.Context, collection string, opts entitystore.ListOptions) ([]json.RawMessage, error)
}

// Fetcher pulls a bounded, recency-sorted window of order items.
type Fetcher struct {
	client recordLister
	logg   *logger.Logger
}

// NewFetcher builds an order-item fetcher.
func NewFetcher(client recordLister, logg *logger.Logger) (*Fetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("entity store client required")
	}
	return &Fetcher{client: client, logg: logg}, nil
}

// FetchRecent lists up to limit items sorted by modifiedDate descending.
// Like the store load, any failure here is fatal to the job.
func (f *Fetcher) FetchRecent(ctx context.Context, limit int) ([]OrderItem, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	records, err := f.client.List(ctx, Collection, entitystore.ListOptions{
		Sort:  "-modifiedDate",
		Limit: limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order items")
	}

	items := make([]OrderItem, 0, len(records))
	for _, raw := range records {
		var item OrderItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order item record")
		}
		items = append(items, item)
	}

	if f.logg != nil {
		f.logg.Info(f.logg.WithField(ctx, "item_count", len(items)), "order items fetched")
	}
	return items, nil
}
