package catalog

import (
	"slices"
	"sync"
)

// LoadState reports which reference collections have been loaded.
type LoadState struct {
	Products     bool `json:"products"`
	Users        bool `json:"users"`
	PaymentTerms bool `json:"paymentTerms"`
}

// Ready reports whether every collection is loaded.
func (s LoadState) Ready() bool {
	return s.Products && s.Users && s.PaymentTerms
}

// Store holds the reference data of the running application.
type Store struct {
	mu       sync.RWMutex
	products []Product
	byCode   map[string]int
	brands   []string
	users    []User
	terms    []PaymentTerm
	loaded   LoadState
}

func NewStore() *Store {
	return &Store{byCode: map[string]int{}}
}

// SetProducts replaces the product collection and recomputes brands.
func (s *Store) SetProducts(products []Product, loaded bool) {
	index := make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := index[p.Code]; !dup {
			index[p.Code] = i
		}
	}
	brands := ExtractBrands(products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
	s.byCode = index
	s.brands = brands
	s.loaded.Products = loaded
}

func (s *Store) SetUsers(users []User, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = slices.Clone(users)
	s.loaded.Users = loaded
}

func (s *Store) SetPaymentTerms(terms []PaymentTerm, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = slices.Clone(terms)
	s.loaded.PaymentTerms = loaded
}

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Brands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.brands)
}

func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) PaymentTerms() []PaymentTerm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.terms)
}

// Product looks a product up by code.
func (s *Store) Product(code string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byCode[code]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

func (s *Store) User(code string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Code == code {
			return u, true
		}
	}
	return User{}, false
}

func (s *Store) PaymentTerm(termType string) (PaymentTerm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.terms {
		if t.Type == termType {
			return t, true
		}
	}
	return PaymentTerm{}, false
}

func (s *Store) Loaded() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
