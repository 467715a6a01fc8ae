package revenue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davidepagano/storeops-backend/internal/directory"
	"github.com/davidepagano/storeops-backend/internal/orderitems"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

type fakeStoreLoader struct {
	stores []directory.Store
	err    error
}

func (f *fakeStoreLoader) LoadStores(context.Context) ([]directory.Store, error) {
	return f.stores, f.err
}

type fakeItemFetcher struct {
	items []orderitems.OrderItem
	err   error
}

func (f *fakeItemFetcher) FetchRecent(context.Context, int) ([]orderitems.OrderItem, error) {
	return f.items, f.err
}

type failingUpserter struct {
	failFor map[string]error
	inner   recordUpserter
}

func (f *failingUpserter) Upsert(ctx context.Context, record Record) (Action, error) {
	if err, ok := f.failFor[record.StoreID]; ok {
		return ActionError, err
	}
	return f.inner.Upsert(ctx, record)
}

func testChannelTable() map[string]string {
	return map[string]string{
		"lct_21684": "Ticinese",
		"lct_21350": "Lanino",
	}
}

func newTestJob(t *testing.T, stores storeLoader, items itemFetcher, upserter recordUpserter) *Job {
	t.Helper()
	job, err := NewJob(JobParams{
		Stores:       stores,
		Items:        items,
		Upserter:     upserter,
		ChannelTable: testChannelTable(),
		Location:     time.UTC,
		Logger:       logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	job.now = func() time.Time { return time.Date(2026, 8, 30, 4, 0, 0, 0, time.UTC) }
	return job
}

func testDirectory() []directory.Store {
	return []directory.Store{
		{ID: "s2", Name: "Lanino"},
		{ID: "s1", Name: "Ticinese"},
		{ID: "s3", Name: "Ghost"},
	}
}

func testItems() []orderitems.OrderItem {
	return []orderitems.OrderItem{
		// channel wins over the conflicting store_name
		{ID: "a", ModifiedDate: "2026-08-29T10:00:00Z", Channel: "lct_21684", StoreName: "Lanino", Order: "o1", FinalPrice: 10, NetFinalPrice: 9},
		{ID: "b", ModifiedDate: "2026-08-29T11:00:00Z", StoreName: "Lanino", Order: "o2", FinalPrice: 6, NetFinalPrice: 5.5},
		// outside the target day
		{ID: "c", ModifiedDate: "2026-08-30T00:00:01Z", StoreName: "Lanino", Order: "o3", FinalPrice: 100, NetFinalPrice: 100},
		// unmatched
		{ID: "d", ModifiedDate: "2026-08-29T12:00:00Z", Order: "o4", FinalPrice: 3, NetFinalPrice: 3},
		// unparseable timestamp
		{ID: "e", ModifiedDate: "yesterday-ish", StoreName: "Lanino"},
	}
}

func resultByStore(t *testing.T, report *Report, name string) Result {
	t.Helper()
	for _, result := range report.Results {
		if result.StoreName == name {
			return result
		}
	}
	t.Fatalf("no result for store %q in %+v", name, report.Results)
	return Result{}
}

func TestJobRunFullPass(t *testing.T) {
	store := newMemoryEntityStore()
	upserter, _ := NewUpserter(store, nil)
	job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, &fakeItemFetcher{items: testItems()}, upserter)

	report, err := job.Run(context.Background(), ptr("2026-08-29"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !report.Success || report.Date != "2026-08-29" {
		t.Fatalf("unexpected report header %+v", report)
	}
	if report.StoresProcessed != 3 || len(report.Results) != 3 {
		t.Fatalf("every directory store needs a result: %+v", report)
	}
	if report.TotalItemsFetched != 5 || report.ItemsForDate != 3 || report.UnmatchedItems != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}

	ticinese := resultByStore(t, report, "Ticinese")
	if ticinese.Action != ActionCreated || ticinese.TotalItems != 1 || ticinese.TotalNetFinalPrice != 9 {
		t.Fatalf("channel-coded item must land on Ticinese: %+v", ticinese)
	}

	lanino := resultByStore(t, report, "Lanino")
	if lanino.TotalItems != 1 || lanino.TotalNetFinalPrice != 5.5 {
		t.Fatalf("out-of-day and channel-claimed items must not reach Lanino: %+v", lanino)
	}

	ghost := resultByStore(t, report, "Ghost")
	if ghost.Action != ActionCreated || ghost.TotalItems != 0 || ghost.TotalOrders != 0 {
		t.Fatalf("zero-item store still gets a fresh record: %+v", ghost)
	}

	// fetched >= for-date >= matched + unmatched
	matched := 0
	for _, result := range report.Results {
		matched += result.TotalItems
	}
	if report.TotalItemsFetched < report.ItemsForDate || report.ItemsForDate < matched+report.UnmatchedItems {
		t.Fatalf("count invariant violated: %+v", report)
	}
}

func TestJobRunIsIdempotent(t *testing.T) {
	store := newMemoryEntityStore()
	upserter, _ := NewUpserter(store, nil)
	job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, &fakeItemFetcher{items: testItems()}, upserter)

	first, err := job.Run(context.Background(), ptr("2026-08-29"))
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := job.Run(context.Background(), ptr("2026-08-29"))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(store.rows) != 3 {
		t.Fatalf("re-run must not duplicate rows, got %d", len(store.rows))
	}
	for _, result := range second.Results {
		if result.Action != ActionUpdated {
			t.Fatalf("second run should update, got %+v", result)
		}
	}
	firstTicinese := resultByStore(t, first, "Ticinese")
	secondTicinese := resultByStore(t, second, "Ticinese")
	if firstTicinese.TotalItems != secondTicinese.TotalItems {
		t.Fatalf("totals must be stable across re-runs: %d vs %d", firstTicinese.TotalItems, secondTicinese.TotalItems)
	}
}

func TestJobRunIsolatesPerStoreFailures(t *testing.T) {
	store := newMemoryEntityStore()
	inner, _ := NewUpserter(store, nil)
	upserter := &failingUpserter{
		inner:   inner,
		failFor: map[string]error{"s2": errors.New("storage hiccup")},
	}
	job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, &fakeItemFetcher{items: testItems()}, upserter)

	report, err := job.Run(context.Background(), ptr("2026-08-29"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !report.Success {
		t.Fatal("per-store failure must not fail the run")
	}
	lanino := resultByStore(t, report, "Lanino")
	if lanino.Action != ActionError || lanino.Error == "" {
		t.Fatalf("expected error outcome for Lanino, got %+v", lanino)
	}
	ticinese := resultByStore(t, report, "Ticinese")
	if ticinese.Action != ActionCreated {
		t.Fatalf("other stores must still persist: %+v", ticinese)
	}
}

func TestJobRunFatalGates(t *testing.T) {
	store := newMemoryEntityStore()
	upserter, _ := NewUpserter(store, nil)

	t.Run("store load failure", func(t *testing.T) {
		loader := &fakeStoreLoader{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("down"), "load stores")}
		job := newTestJob(t, loader, &fakeItemFetcher{}, upserter)

		_, err := job.Run(context.Background(), ptr("2026-08-29"))
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", err)
		}
	})

	t.Run("item fetch failure", func(t *testing.T) {
		fetcher := &fakeItemFetcher{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("down"), "fetch order items")}
		job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, fetcher, upserter)

		_, err := job.Run(context.Background(), ptr("2026-08-29"))
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", err)
		}
		if len(store.rows) != 0 {
			t.Fatal("no per-store work may happen after a fatal gate")
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, &fakeItemFetcher{}, upserter)

		_, err := job.Run(context.Background(), ptr("08/29/2026"))
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestJobRunDefaultsToYesterday(t *testing.T) {
	store := newMemoryEntityStore()
	upserter, _ := NewUpserter(store, nil)
	job := newTestJob(t, &fakeStoreLoader{stores: testDirectory()}, &fakeItemFetcher{items: testItems()}, upserter)

	report, err := job.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// job.now is fixed to 2026-08-30
	if report.Date != "2026-08-29" {
		t.Fatalf("expected yesterday, got %s", report.Date)
	}
}
