// Package revenue implements the daily store-revenue aggregation job:
// one pass over a day's POS order items, resolved to physical stores,
// summed into one idempotent summary record per (store, date).
package revenue

import (
	"time"

	"github.com/davidepagano/storeops-backend/internal/directory"
)

// Collection is the entity-store collection holding daily summaries.
const Collection = "DailyStoreRevenue"

// DateLayout is the calendar-day key format.
const DateLayout = "2006-01-02"

// Sentinel bucket keys for missing categorical values. Bucketing instead
// of dropping keeps every breakdown summing to the store total.
const (
	NoApp         = "no_app"
	NoType        = "no_type"
	NoPaymentType = "no_payment_type"
	NoSaleType    = "no_sale_type"
)

// BreakdownEntry is one bucket of a categorical breakdown.
type BreakdownEntry struct {
	NetFinalPrice float64 `json:"finalPriceWithSessionDiscountsAndSurcharges"`
	FinalPrice    float64 `json:"finalPrice"`
}

// Record is one day's revenue summary for one store, keyed by
// (store_id, date). Re-running the job replaces it wholesale.
type Record struct {
	StoreID            string                    `json:"store_id"`
	StoreName          string                    `json:"store_name"`
	Date               string                    `json:"date"`
	TotalNetFinalPrice float64                   `json:"total_finalPriceWithSessionDiscountsAndSurcharges"`
	TotalFinalPrice    float64                   `json:"total_finalPrice"`
	TotalOrders        int                       `json:"total_orders"`
	TotalItems         int                       `json:"total_items"`
	BySourceApp        map[string]BreakdownEntry `json:"by_sourceApp"`
	BySourceType       map[string]BreakdownEntry `json:"by_sourceType"`
	ByMoneyType        map[string]BreakdownEntry `json:"by_moneyTypeName"`
	BySaleType         map[string]BreakdownEntry `json:"by_saleTypeName"`
}

// Action is the persistence outcome for one store.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionError   Action = "error"
)

// Result is one store's entry in the job report.
type Result struct {
	Action Action `json:"action"`
	Record
	Error string `json:"error,omitempty"`
}

// Report is the job's structured outcome.
type Report struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	Date              string   `json:"date"`
	StoresProcessed   int      `json:"stores_processed"`
	TotalItemsFetched int      `json:"total_items_fetched"`
	ItemsForDate      int      `json:"items_for_date"`
	UnmatchedItems    int      `json:"unmatched_items_count"`
	Results           []Result `json:"results"`
}

// emptyRecord is the all-zero summary for a store with no matched items.
func emptyRecord(store directory.Store, day time.Time) Record {
	return Record{
		StoreID:      store.ID,
		StoreName:    store.Name,
		Date:         day.Format(DateLayout),
		BySourceApp:  map[string]BreakdownEntry{},
		BySourceType: map[string]BreakdownEntry{},
		ByMoneyType:  map[string]BreakdownEntry{},
		BySaleType:   map[string]BreakdownEntry{},
	}
}
