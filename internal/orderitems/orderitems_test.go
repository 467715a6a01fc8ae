package orderitems

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/davidepagano/storeops-backend/pkg/entitystore"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
)

type fakeLister struct {
	records []json.RawMessage
	err     error

	lastOpts entitystore.ListOptions
}

func (f *fakeLister) List(_ context.Context, _ string, opts entitystore.ListOptions) ([]json.RawMessage, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestFetchRecentRequestsRecencySortedWindow(t *testing.T) {
	lister := &fakeLister{records: []json.RawMessage{
		json.RawMessage(`{"id":"i1","modifiedDate":"2026-08-29T12:00:00Z","finalPrice":9.5,"finalPriceWithSessionDiscountsAndSurcharges":8.5}`),
	}}
	fetcher, err := NewFetcher(lister, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	items, err := fetcher.FetchRecent(context.Background(), 500)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(items) != 1 || items[0].NetFinalPrice != 8.5 {
		t.Fatalf("unexpected items %+v", items)
	}
	if lister.lastOpts.Sort != "-modifiedDate" || lister.lastOpts.Limit != 500 {
		t.Fatalf("unexpected list options %+v", lister.lastOpts)
	}
}

func TestFetchRecentDefaultsLimit(t *testing.T) {
	lister := &fakeLister{}
	fetcher, _ := NewFetcher(lister, nil)

	if _, err := fetcher.FetchRecent(context.Background(), 0); err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if lister.lastOpts.Limit != DefaultFetchLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultFetchLimit, lister.lastOpts.Limit)
	}
}

func TestFetchRecentWrapsFailureAsDependency(t *testing.T) {
	fetcher, _ := NewFetcher(&fakeLister{err: errors.New("timeout")}, nil)

	_, err := fetcher.FetchRecent(context.Background(), 10)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestFetchRecentToleratesMissingOptionalFields(t *testing.T) {
	lister := &fakeLister{records: []json.RawMessage{
		json.RawMessage(`{"id":"i2"}`),
	}}
	fetcher, _ := NewFetcher(lister, nil)

	items, err := fetcher.FetchRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	item := items[0]
	if item.StoreID != "" || item.Channel != "" || item.FinalPrice != 0 {
		t.Fatalf("optional fields should zero-value: %+v", item)
	}
}
