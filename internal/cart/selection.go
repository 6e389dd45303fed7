package cart

import (
	"sync"

	"github.com/lanort/pedidos/pkg/money"
)

// UnknownProductStock caps selections for products missing from the catalog.
const UnknownProductStock = 999

// Selection tracks the pending quantity picked for each product before it is added
// to the cart.
type Selection struct {
	mu         sync.Mutex
	quantities map[string]int
}

func NewSelection() *Selection {
	return &Selection{quantities: map[string]int{}}
}

// Adjust moves the pending quantity by delta, clamped to [0, stock].
func (s *Selection) Adjust(code string, delta, stock int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	qty := clamp(s.quantities[code]+delta, stock)
	s.quantities[code] = qty
	return qty
}

// Set replaces the pending quantity, clamped to [0, stock].
func (s *Selection) Set(code string, qty, stock int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	qty = clamp(qty, stock)
	s.quantities[code] = qty
	return qty
}

func (s *Selection) Get(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantities[code]
}

// Reset zeroes the pending quantity of one product.
func (s *Selection) Reset(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quantities, code)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantities = map[string]int{}
}

// Preview is the line total the pending quantity would produce.
func (s *Selection) Preview(code string, unitPrice float64) float64 {
	return money.LineTotal(unitPrice, s.Get(code))
}

func clamp(qty, stock int) int {
	if qty > stock {
		qty = stock
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}
