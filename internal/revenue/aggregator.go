package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
)

type breakdownAccumulator struct {
	net   decimal.Decimal
	gross decimal.Decimal
}

// Aggregate folds a store's items for the day into one summary record.
// It runs for every store in the directory, items or not, so downstream
// dashboards always find a fresh record and can tell "no sales" apart
// from "no data".
//
// Accumulation happens in decimals; rounding to 2 places occurs once, at
// output, so rounding error cannot compound across items.
func Aggregate(store directory.Store, day time.Time, items []orderitems.OrderItem) Record {
	record := emptyRecord(store, day)
	if len(items) == 0 {
		return record
	}

	var totalNet, totalGross decimal.Decimal
	orders := make(map[string]struct{})
	apps := make(map[string]*breakdownAccumulator)
	types := make(map[string]*breakdownAccumulator)
	moneyTypes := make(map[string]*breakdownAccumulator)
	saleTypes := make(map[string]*breakdownAccumulator)

	for _, item := range items {
		net := decimal.NewFromFloat(item.NetFinalPrice)
		gross := decimal.NewFromFloat(item.FinalPrice)

		totalNet = totalNet.Add(net)
		totalGross = totalGross.Add(gross)

		if item.Order != "" {
			orders[item.Order] = struct{}{}
		}

		accumulate(apps, bucketKey(item.SourceApp, NoApp), net, gross)
		accumulate(types, bucketKey(item.SourceType, NoType), net, gross)
		accumulate(moneyTypes, bucketKey(item.MoneyTypeName, NoPaymentType), net, gross)
		accumulate(saleTypes, bucketKey(item.SaleTypeName, NoSaleType), net, gross)
	}

	record.TotalNetFinalPrice = round2(totalNet)
	record.TotalFinalPrice = round2(totalGross)
	record.TotalOrders = len(orders)
	record.TotalItems = len(items)
	record.BySourceApp = finalize(apps)
	record.BySourceType = finalize(types)
	record.ByMoneyType = finalize(moneyTypes)
	record.BySaleType = finalize(saleTypes)
	return record
}

func bucketKey(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}

func accumulate(buckets map[string]*breakdownAccumulator, key string, net, gross decimal.Decimal) {
	acc, ok := buckets[key]
	if !ok {
		acc = &breakdownAccumulator{}
		buckets[key] = acc
	}
	acc.net = acc.net.Add(net)
	acc.gross = acc.gross.Add(gross)
}

func finalize(buckets map[string]*breakdownAccumulator) map[string]BreakdownEntry {
	entries := make(map[string]BreakdownEntry, len(buckets))
	for key, acc := range buckets {
		entries[key] = BreakdownEntry{
			NetFinalPrice: round2(acc.net),
			FinalPrice:    round2(acc.gross),
		}
	}
	return entries
}

func round2(d decimal.Decimal) float64 {
	rounded, _ := d.Round(2).Float64()
	return rounded
}
