// Package storage defines the key-value surface that stands in for browser local
// storage: one key for the serialized cart, one for the last order number and one
// for placeholder stock pinned per product code.
package storage

import (
	"context"
	"errors"
	"sync"
)

const (
	CartKey         = "lanort_cart"
	OrderCounterKey = "lanort_last_order_number"
	StockPinsKey    = "lanort_synthetic_stock"
)

// ErrNotFound is returned by Get when a key was never written.
var ErrNotFound = errors.New("storage: key not found")

// KeyValue is the persistence contract for client state. Writes are last-write-wins.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// Memory is a process-local KeyValue.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
