package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/lanort/pedidos/internal/catalog"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/storage"
)

const (
	msgQuantityRequired = "Selecione uma quantidade maior que zero!"
	msgProductNotFound  = "Produto não encontrado!"
	msgOutOfStock       = "Produto sem estoque disponível!"
	msgItemNotFound     = "Item não encontrado no carrinho!"
)

// ProductLookup resolves catalog products by code.
type ProductLookup interface {
	Product(code string) (catalog.Product, bool)
}

// UpdateResult reports a quantity change. Clamped is set when the requested quantity
// was cut to the stock ceiling; Message then carries the ceiling text.
type UpdateResult struct {
	Item    *Item  `json:"item,omitempty"`
	Removed bool   `json:"removed"`
	Clamped bool   `json:"clamped"`
	Message string `json:"message,omitempty"`
}

// Manager owns the cart. Every mutation is applied to a copy and persisted before it
// becomes visible, so a failed write leaves the cart as it was. Writers in other
// processes sharing the same storage key are not coordinated; the last write wins.
type Manager struct {
	mu       sync.RWMutex
	items    []Item
	kv       storage.KeyValue
	products ProductLookup
	logg     *logger.Logger
}

func NewManager(kv storage.KeyValue, products ProductLookup, logg *logger.Logger) (*Manager, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Manager{kv: kv, products: products, logg: logg, items: []Item{}}, nil
}

// Restore loads the persisted cart. Malformed content yields an empty cart.
func (m *Manager) Restore(ctx context.Context) error {
	raw, err := m.kv.Get(ctx, storage.CartKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "discarding malformed stored cart")
		items = []Item{}
	}
	for i := range items {
		items[i].recompute()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	return nil
}

// Items returns a copy of the cart lines.
func (m *Manager) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return summarize(m.items)
}

// Add puts qty units of the product in the cart, merging into an existing line.
func (m *Manager) Add(ctx context.Context, code string, qty int) (*Item, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgQuantityRequired)
	}
	product, ok := m.products.Product(code)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
	}
	if product.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgOutOfStock)
	}
	if qty > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("Quantidade solicitada (%d) maior que estoque disponível (%d)!", qty, product.Stock)).
			WithDetails(map[string]any{"requested": qty, "stock": product.Stock})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := slices.Clone(m.items)
	idx := slices.IndexFunc(next, func(it Item) bool { return it.Code == code })
	if idx >= 0 {
		merged := next[idx].Quantity + qty
		if merged > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("Quantidade total no carrinho (%d) maior que estoque disponível (%d)!", merged, product.Stock)).
				WithDetails(map[string]any{"requested": merged, "stock": product.Stock})
		}
		next[idx].Quantity = merged
		next[idx].Stock = product.Stock
		next[idx].recompute()
	} else {
		item := Item{
			Code:        product.Code,
			Description: product.Description,
			Brand:       product.Brand,
			UnitPrice:   product.UnitPrice,
			Quantity:    qty,
			Stock:       product.Stock,
			ImageURL:    product.ImageURL,
			HasImage:    product.HasImage(),
		}
		item.recompute()
		next = append(next, item)
		idx = len(next) - 1
	}

	if err := m.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	added := next[idx]
	return &added, nil
}

// Adjust changes the quantity of the line at index by delta.
func (m *Manager) Adjust(ctx context.Context, index, delta int) (*UpdateResult, error) {
	return m.update(ctx, index, func(current int) int { return current + delta })
}

// SetQuantity sets the quantity of the line at index.
func (m *Manager) SetQuantity(ctx context.Context, index, qty int) (*UpdateResult, error) {
	return m.update(ctx, index, func(int) int { return qty })
}

func (m *Manager) update(ctx context.Context, index int, next func(current int) int) (*UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.items) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
	}
	items := slices.Clone(m.items)
	item := items[index]

	stock := item.Stock
	if product, ok := m.products.Product(item.Code); ok {
		stock = product.Stock
	}

	qty := next(item.Quantity)
	result := &UpdateResult{}
	if qty > stock {
		qty = stock
		result.Clamped = true
		result.Message = fmt.Sprintf("Quantidade não pode ser maior que o estoque disponível (%d)!", stock)
	}
	if qty <= 0 {
		items = slices.Delete(items, index, index+1)
		result.Removed = true
	} else {
		item.Quantity = qty
		item.Stock = stock
		item.recompute()
		items[index] = item
		result.Item = &item
	}

	if err := m.commitLocked(ctx, items); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes the line at index.
func (m *Manager) Remove(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.items) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
	}
	return m.commitLocked(ctx, slices.Delete(slices.Clone(m.items), index, index+1))
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitLocked(ctx, []Item{})
}

// DropSent removes the first n lines, the ones already delivered to the backend.
func (m *Manager) DropSent(ctx context.Context, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 {
		return nil
	}
	if n > len(m.items) {
		n = len(m.items)
	}
	return m.commitLocked(ctx, slices.Clone(m.items[n:]))
}

func (m *Manager) commitLocked(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := m.kv.Set(ctx, storage.CartKey, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	m.items = items
	return nil
}
