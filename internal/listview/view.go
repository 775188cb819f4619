// Package listview holds the state machine behind every paginated console list:
// page, page size and filter inputs, the last page envelope and the last error.
package listview

import (
	"context"
	"errors"
	"sync"

	"github.com/llanero/admin-backend/pkg/pagination"
)

// State is the lifecycle of a view: idle until the first load, loading while a
// fetch is in flight, then success or error.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// ErrSuperseded is returned when a newer request was issued before this one
// completed. Its result is discarded.
var ErrSuperseded = errors.New("listview: response superseded by a newer request")

// Fetcher loads one page for the given filter.
type Fetcher[T any, F any] func(ctx context.Context, params pagination.Params, filter F) (pagination.Page[T], error)

// KeyFunc returns the identity of a row.
type KeyFunc[T any] func(T) string

// Snapshot is an immutable copy of the view state.
type Snapshot[T any, F any] struct {
	State  State              `json:"state"`
	Params pagination.Params  `json:"params"`
	Filter F                  `json:"filter"`
	Page   pagination.Page[T] `json:"page"`
	Err    error              `json:"-"`
}

// Option configures a View.
type Option[T any, F any] func(*View[T, F])

// WithPageSize sets the initial page size.
func WithPageSize[T any, F any](size int) Option[T, F] {
	return func(v *View[T, F]) {
		v.params.PageSize = size
	}
}

// WithFilter sets the initial filter.
func WithFilter[T any, F any](filter F) Option[T, F] {
	return func(v *View[T, F]) {
		v.filter = filter
	}
}

// WithOnChange registers a listener called after every state transition.
func WithOnChange[T any, F any](fn func(Snapshot[T, F])) Option[T, F] {
	return func(v *View[T, F]) {
		v.onChange = fn
	}
}

// View is safe for concurrent use. Each load takes a generation number and
// only the latest generation may write its result.
type View[T any, F any] struct {
	mu         sync.Mutex
	fetch      Fetcher[T, F]
	key        KeyFunc[T]
	onChange   func(Snapshot[T, F])
	params     pagination.Params
	filter     F
	state      State
	page       pagination.Page[T]
	err        error
	generation uint64
}

// New builds an idle view. key is used by Apply to find the row to patch.
func New[T any, F any](fetch Fetcher[T, F], key KeyFunc[T], opts ...Option[T, F]) *View[T, F] {
	v := &View[T, F]{
		fetch:  fetch,
		key:    key,
		params: pagination.Params{Page: pagination.DefaultPage, PageSize: pagination.DefaultPageSize},
		state:  StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.params = pagination.Normalize(v.params)
	v.page = pagination.Empty[T](v.params)
	return v
}

// Load fetches the current page with the current filter.
func (v *View[T, F]) Load(ctx context.Context) error {
	v.mu.Lock()
	return v.loadLocked(ctx)
}

// SetPage moves to page and loads it.
func (v *View[T, F]) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	v.params.Page = page
	v.params = pagination.Normalize(v.params)
	return v.loadLocked(ctx)
}

// SetPageSize changes the page size. The page resets to 1 before the fetch.
func (v *View[T, F]) SetPageSize(ctx context.Context, size int) error {
	v.mu.Lock()
	v.params.PageSize = size
	v.params.Page = pagination.DefaultPage
	v.params = pagination.Normalize(v.params)
	return v.loadLocked(ctx)
}

// SetFilter replaces the filter. The page resets to 1 before the fetch.
func (v *View[T, F]) SetFilter(ctx context.Context, filter F) error {
	v.mu.Lock()
	v.filter = filter
	v.params.Page = pagination.DefaultPage
	return v.loadLocked(ctx)
}

// Refresh reloads the current page.
func (v *View[T, F]) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

// Retry re-issues the last fetch after an error.
func (v *View[T, F]) Retry(ctx context.Context) error {
	return v.Load(ctx)
}

// Created re-queries the current page after a row was added.
func (v *View[T, F]) Created(ctx context.Context) error {
	return v.Load(ctx)
}

// Removed re-queries the current page after a row was deleted. When the delete
// emptied the last page the view steps back to the new last page.
func (v *View[T, F]) Removed(ctx context.Context) error {
	if err := v.Load(ctx); err != nil {
		return err
	}
	v.mu.Lock()
	last := v.page.TotalPages
	if len(v.page.Data) > 0 || last == 0 || v.params.Page <= last {
		v.mu.Unlock()
		return nil
	}
	v.params.Page = last
	return v.loadLocked(ctx)
}

// Apply replaces the row with the same key using the authoritative record
// returned by a command. It reports whether the row was on the current page.
func (v *View[T, F]) Apply(row T) bool {
	v.mu.Lock()
	if v.key == nil {
		v.mu.Unlock()
		return false
	}
	id := v.key(row)
	found := false
	data := make([]T, len(v.page.Data))
	copy(data, v.page.Data)
	for i := range data {
		if v.key(data[i]) == id {
			data[i] = row
			found = true
			break
		}
	}
	if found {
		v.page.Data = data
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	if found {
		v.notify(snap)
	}
	return found
}

// Snapshot returns the current state.
func (v *View[T, F]) Snapshot() Snapshot[T, F] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// loadLocked must be called with mu held and releases it.
func (v *View[T, F]) loadLocked(ctx context.Context) error {
	v.generation++
	gen := v.generation
	params := v.params
	filter := v.filter
	v.state = StateLoading
	snap := v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)

	page, err := v.fetch(ctx, params, filter)

	v.mu.Lock()
	if gen != v.generation {
		v.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		v.state = StateError
		v.err = err
	} else {
		v.state = StateSuccess
		v.err = nil
		v.page = page
	}
	snap = v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)
	return err
}

func (v *View[T, F]) snapshotLocked() Snapshot[T, F] {
	page := v.page
	page.Data = append([]T(nil), v.page.Data...)
	if page.Data == nil {
		page.Data = []T{}
	}
	return Snapshot[T, F]{
		State:  v.state,
		Params: v.params,
		Filter: v.filter,
		Page:   page,
		Err:    v.err,
	}
}

func (v *View[T, F]) notify(snap Snapshot[T, F]) {
	if v.onChange != nil {
		v.onChange(snap)
	}
}
