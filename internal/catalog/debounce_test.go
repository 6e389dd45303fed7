package catalog

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsOnlyLastCall(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	got := make(chan int, 3)

	for i := 1; i <= 3; i++ {
		d.Do(func() {
			calls.Add(1)
			got <- i
		})
	}

	select {
	case v := <-got:
		assert.Equal(t, 3, v)
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Do(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncedSearchUsesLatestInput(t *testing.T) {
	searcher, store := newTestSearcher(t, newStubFetcher())
	store.SetProducts(testProducts(), true)

	results := make(chan *SearchResult, 2)
	ds := NewDebouncedSearch(searcher, 20*time.Millisecond, func(r *SearchResult, err error) {
		assert.NoError(t, err)
		results <- r
	})
	defer ds.Stop()

	ds.Input(context.Background(), "a", "")
	ds.Input(context.Background(), "al", "")
	ds.Input(context.Background(), "detergente", "")

	select {
	case r := <-results:
		assert.Equal(t, "detergente", r.Summary.Term)
		assert.Len(t, r.Products, 1)
	case <-time.After(time.Second):
		t.Fatal("debounced search never ran")
	}
}

func TestDebouncerFlushRunsPendingNow(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var calls atomic.Int32
	d.Do(func() { calls.Add(1) })
	d.Do(func() { calls.Add(10) })

	d.Flush()
	assert.Equal(t, int32(10), calls.Load())

	d.Flush()
	assert.Equal(t, int32(10), calls.Load())
}

func TestDebouncerFlushWaitsForRunningCall(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	started := make(chan struct{})
	var done atomic.Bool
	d.Do(func() {
		close(started)
		time.Sleep(30 * time.Millisecond)
		done.Store(true)
	})

	<-started
	d.Flush()
	assert.True(t, done.Load())
}
