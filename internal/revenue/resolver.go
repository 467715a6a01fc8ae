package revenue

import (
	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
)

// ResolveAndGroup assigns each item to a store, applying the rules in
// strict priority order and stopping at the first match:
//
//  1. printedOrderItemChannel against the channel-code index. POS
//     terminals are configured per physical channel, so this is the most
//     trustworthy signal when present.
//  2. store_name, normalized, against the name index. Free text, subject
//     to casing drift and typos.
//  3. store_id against the id index. Last, because stored ids can be
//     stale or reassigned.
//
// Items matching no rule are returned as unmatched. They never fail the
// run; operators investigate them from the reported count.
func ResolveAndGroup(items []orderitems.OrderItem, idx directory.Indices) (map[string][]orderitems.OrderItem, []orderitems.OrderItem) {
	grouped := make(map[string][]orderitems.OrderItem)
	var unmatched []orderitems.OrderItem

	for _, item := range items {
		store, ok := resolve(item, idx)
		if !ok {
			unmatched = append(unmatched, item)
			continue
		}
		grouped[store.ID] = append(grouped[store.ID], item)
	}

	return grouped, unmatched
}

func resolve(item orderitems.OrderItem, idx directory.Indices) (directory.Store, bool) {
	if item.Channel != "" {
		if store, ok := idx.ByChannelCode[item.Channel]; ok {
			return store, true
		}
	}
	if item.StoreName != "" {
		if store, ok := idx.ByNormalizedName[directory.NormalizeName(item.StoreName)]; ok {
			return store, true
		}
	}
	if item.StoreID != "" {
		if store, ok := idx.ByID[item.StoreID]; ok {
			return store, true
		}
	}
	return directory.Store{}, false
}
