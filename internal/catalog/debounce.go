package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to free-text input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last function scheduled within its window.
type Debouncer struct {
	wait    time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	// counts functions scheduled but not finished
	active sync.WaitGroup
}

func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait}
}

// Do schedules fn, replacing anything still pending.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.active.Add(1)
	d.pending = fn
	d.timer = time.AfterFunc(d.wait, func() {
		defer d.active.Done()
		fn()
	})
}

// Stop cancels the pending function, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush runs the pending function now instead of at the end of the window and
// waits for any function already running.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var fn func()
	if d.timer != nil && d.timer.Stop() {
		fn = d.pending
	}
	d.timer = nil
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
		d.active.Done()
	}
	d.active.Wait()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil && d.timer.Stop() {
		d.active.Done()
	}
	d.timer = nil
	d.pending = nil
}

// DebouncedSearch coalesces typed input into search passes.
type DebouncedSearch struct {
	searcher  *Searcher
	debouncer *Debouncer
	onResult  func(*SearchResult, error)
}

func NewDebouncedSearch(searcher *Searcher, wait time.Duration, onResult func(*SearchResult, error)) *DebouncedSearch {
	return &DebouncedSearch{
		searcher:  searcher,
		debouncer: NewDebouncer(wait),
		onResult:  onResult,
	}
}

// Input records the latest term and brand; the search runs once input settles.
func (d *DebouncedSearch) Input(ctx context.Context, term, brand string) {
	d.debouncer.Do(func() {
		result, err := d.searcher.Search(ctx, term, brand)
		if d.onResult != nil {
			d.onResult(result, err)
		}
	})
}

// Flush runs the pending search immediately and waits for it to report.
func (d *DebouncedSearch) Flush() {
	d.debouncer.Flush()
}

func (d *DebouncedSearch) Stop() {
	d.debouncer.Stop()
}
