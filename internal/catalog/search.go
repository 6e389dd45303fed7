package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/lanort/pedidos/pkg/logger"
)

// ErrSearchInFlight is returned when a search pass is dropped because another one is
// still running.
var ErrSearchInFlight = errors.New("catalog: search already in progress")

// DefaultPageSize is reported on results; it never limits them.
const DefaultPageSize = 10000

type productLoader interface {
	LoadProducts(ctx context.Context) error
}

// SearchResult is one filter pass over the full product collection.
type SearchResult struct {
	Products []Product `json:"products"`
	Label    string    `json:"label"`
	Summary  Summary   `json:"summary"`
	Lines    []string  `json:"summaryLines"`
	PageSize int       `json:"pageSize"`
	Warning  string    `json:"warning,omitempty"`
}

// Searcher filters the loaded catalog. Overlapping passes are dropped, not queued.
type Searcher struct {
	store    *Store
	loader   productLoader
	logg     *logger.Logger
	pageSize int
	inFlight atomic.Bool
}

func NewSearcher(store *Store, loader productLoader, logg *logger.Logger, pageSize int) (*Searcher, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Searcher{store: store, loader: loader, logg: logg, pageSize: pageSize}, nil
}

// Search loads products when needed, then filters them by term and brand. A failed
// load does not abort the pass; it is reported on the result.
func (s *Searcher) Search(ctx context.Context, term, brand string) (*SearchResult, error) {
	var warning string
	if !s.store.Loaded().Products {
		if err := s.loader.LoadProducts(ctx); err != nil {
			warning = err.Error()
		}
	}

	term = strings.TrimSpace(term)
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logg.Debug(ctx, "search dropped while another pass is running")
		return nil, ErrSearchInFlight
	}
	defer s.inFlight.Store(false)

	all := s.store.Products()
	matched := Filter(all, term, brand)
	summary := Summary{Brand: brand, Term: term, Total: len(all)}
	return &SearchResult{
		Products: matched,
		Label:    ResultsLabel(len(matched)),
		Summary:  summary,
		Lines:    summary.Lines(),
		PageSize: s.pageSize,
		Warning:  warning,
	}, nil
}
