package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/llanero/admin-backend/pkg/pagination"
)

type product struct {
	ID        string
	Name      string
	Warehouse string
}

type productFilter struct {
	Warehouse string
}

type fetchCall struct {
	params pagination.Params
	filter productFilter
}

type memStore struct {
	mu    sync.Mutex
	rows  []product
	calls []fetchCall
	err   error
}

func newMemStore(n int, warehouse string) *memStore {
	s := &memStore{}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, product{ID: fmt.Sprintf("p-%02d", i), Name: fmt.Sprintf("Producto %d", i), Warehouse: warehouse})
	}
	return s
}

func (s *memStore) fetch(_ context.Context, params pagination.Params, filter productFilter) (pagination.Page[product], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fetchCall{params: params, filter: filter})
	if s.err != nil {
		return pagination.Page[product]{}, s.err
	}
	var matched []product
	for _, row := range s.rows {
		if filter.Warehouse == "" || row.Warehouse == filter.Warehouse {
			matched = append(matched, row)
		}
	}
	total := int64(len(matched))
	if pagination.PastEnd(total, params) {
		return pagination.NewPage[product](nil, total, params), nil
	}
	end := params.Offset() + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return pagination.NewPage(matched[params.Offset():end], total, params), nil
}

func (s *memStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}

func (s *memStore) lastCall() fetchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func productKey(p product) string { return p.ID }

func TestSetPageSizeResetsPageBeforeFetch(t *testing.T) {
	store := newMemStore(40, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	ctx := context.Background()

	for _, size := range []int{5, 20, 10, 100} {
		if err := view.SetPage(ctx, 3); err != nil {
			t.Fatalf("set page: %v", err)
		}
		if err := view.SetPageSize(ctx, size); err != nil {
			t.Fatalf("set page size: %v", err)
		}
		call := store.lastCall()
		if call.params.Page != 1 || call.params.PageSize != size {
			t.Fatalf("expected fetch with page 1 size %d, got %+v", size, call.params)
		}
	}
}

func TestSetFilterResetsPage(t *testing.T) {
	store := newMemStore(30, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	ctx := context.Background()

	if err := view.SetPage(ctx, 2); err != nil {
		t.Fatalf("set page: %v", err)
	}
	if err := view.SetFilter(ctx, productFilter{Warehouse: "w1"}); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	call := store.lastCall()
	if call.params.Page != 1 {
		t.Fatalf("expected page reset to 1, got %d", call.params.Page)
	}
	if call.filter.Warehouse != "w1" {
		t.Fatalf("filter not forwarded: %+v", call.filter)
	}
	if snap := view.Snapshot(); snap.Params.Page != 1 {
		t.Fatalf("snapshot page %d", snap.Params.Page)
	}
}

func TestStateTransitionsAndRetry(t *testing.T) {
	store := newMemStore(3, "w1")
	store.err = errors.New("connection refused")
	var (
		mu     sync.Mutex
		states []State
	)
	view := New[product, productFilter](store.fetch, productKey, WithOnChange(func(s Snapshot[product, productFilter]) {
		mu.Lock()
		states = append(states, s.State)
		mu.Unlock()
	}))
	ctx := context.Background()

	if snap := view.Snapshot(); snap.State != StateIdle {
		t.Fatalf("expected idle, got %s", snap.State)
	}
	if err := view.Load(ctx); err == nil {
		t.Fatal("expected load error")
	}
	snap := view.Snapshot()
	if snap.State != StateError || snap.Err == nil || snap.Err.Error() != "connection refused" {
		t.Fatalf("unexpected error snapshot %+v", snap)
	}

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	if err := view.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	snap = view.Snapshot()
	if snap.State != StateSuccess || snap.Err != nil || len(snap.Page.Data) != 3 {
		t.Fatalf("unexpected success snapshot %+v", snap)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []State{StateLoading, StateError, StateLoading, StateSuccess}
	if fmt.Sprint(states) != fmt.Sprint(want) {
		t.Fatalf("expected transitions %v, got %v", want, states)
	}
}

func TestLateResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(ctx context.Context, params pagination.Params, _ productFilter) (pagination.Page[product], error) {
		if params.PageSize == 5 {
			close(started)
			<-release
			return pagination.NewPage([]product{{ID: "stale"}}, 1, params), nil
		}
		return pagination.NewPage([]product{{ID: "fresh"}}, 1, params), nil
	}
	view := New[product, productFilter](fetch, productKey)
	ctx := context.Background()

	slowErr := make(chan error, 1)
	go func() { slowErr <- view.SetPageSize(ctx, 5) }()
	<-started

	if err := view.SetPageSize(ctx, 20); err != nil {
		t.Fatalf("fast load: %v", err)
	}
	close(release)

	if err := <-slowErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	snap := view.Snapshot()
	if snap.Page.Data[0].ID != "fresh" || snap.Params.PageSize != 20 {
		t.Fatalf("late response overwrote newer state: %+v", snap)
	}
}

func TestApplyPatchesRowFromCommandResponse(t *testing.T) {
	store := newMemStore(5, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	ctx := context.Background()
	if err := view.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	calls := len(store.calls)

	if !view.Apply(product{ID: "p-02", Name: "Renamed", Warehouse: "w1"}) {
		t.Fatal("expected row to be patched")
	}
	if view.Apply(product{ID: "missing"}) {
		t.Fatal("unexpected patch of absent row")
	}
	if got := view.Snapshot().Page.Data[1].Name; got != "Renamed" {
		t.Fatalf("expected patched name, got %q", got)
	}
	if len(store.calls) != calls {
		t.Fatal("apply must not refetch")
	}
}

func TestRemovedRefetchesAndDropsRow(t *testing.T) {
	store := newMemStore(25, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	ctx := context.Background()
	if err := view.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := view.Snapshot().Page
	victim := before.Data[4].ID

	store.delete(victim)
	if err := view.Removed(ctx); err != nil {
		t.Fatalf("removed: %v", err)
	}
	after := view.Snapshot().Page
	if after.TotalCount != before.TotalCount-1 {
		t.Fatalf("expected total %d, got %d", before.TotalCount-1, after.TotalCount)
	}
	for _, row := range after.Data {
		if row.ID == victim {
			t.Fatalf("deleted row %s still present", victim)
		}
	}
}

func TestRemovedLastRowStepsBack(t *testing.T) {
	store := newMemStore(11, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	ctx := context.Background()
	if err := view.SetPage(ctx, 2); err != nil {
		t.Fatalf("set page: %v", err)
	}
	if n := len(view.Snapshot().Page.Data); n != 1 {
		t.Fatalf("expected one row on page 2, got %d", n)
	}

	store.delete("p-11")
	if err := view.Removed(ctx); err != nil {
		t.Fatalf("removed: %v", err)
	}
	snap := view.Snapshot()
	if snap.Params.Page != 1 || len(snap.Page.Data) != 10 {
		t.Fatalf("expected step back to page 1 with 10 rows, got page %d rows %d", snap.Params.Page, len(snap.Page.Data))
	}
}

func TestPageBeyondEndIsEmptyNotError(t *testing.T) {
	store := newMemStore(25, "w1")
	view := New[product, productFilter](store.fetch, productKey)
	if err := view.SetPage(context.Background(), 4); err != nil {
		t.Fatalf("page 4: %v", err)
	}
	snap := view.Snapshot()
	if snap.State != StateSuccess || len(snap.Page.Data) != 0 || snap.Page.TotalPages != 3 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
