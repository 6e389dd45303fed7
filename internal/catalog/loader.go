package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
	"github.com/lanort/pedidos/pkg/sheetapi"
	"github.com/lanort/pedidos/pkg/storage"
)

// Fetcher reads raw reference rows from the backend.
type Fetcher interface {
	Fetch(ctx context.Context, resource enums.Resource) ([]sheetapi.Record, error)
}

// LoaderOption configures optional loader behavior.
type LoaderOption func(*Loader)

// WithStockResolver overrides how missing stock is resolved.
func WithStockResolver(r StockResolver) LoaderOption {
	return func(l *Loader) {
		l.stock = r
	}
}

func WithMetrics(m *metrics.Pipeline) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithSampleFallback installs the built-in sample data when a load fails and the
// collection was never loaded.
func WithSampleFallback(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.sampleFallback = enabled
	}
}

// WithStockPins keeps placeholder stock stable per product code across reloads and
// processes by persisting it under storage.StockPinsKey.
func WithStockPins(kv storage.KeyValue) LoaderOption {
	return func(l *Loader) {
		l.pinStore = kv
	}
}

// Loader fetches products, users and payment terms into a Store. Each collection is
// an independent request; a failure never touches the other collections.
type Loader struct {
	fetcher        Fetcher
	store          *Store
	logg           *logger.Logger
	stock          StockResolver
	metrics        *metrics.Pipeline
	sampleFallback bool

	pinMu    sync.Mutex
	pins     map[string]int
	pinStore storage.KeyValue
}

func NewLoader(fetcher Fetcher, store *Store, logg *logger.Logger, opts ...LoaderOption) (*Loader, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("reference fetcher required")
	}
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	l := &Loader{
		fetcher: fetcher,
		store:   store,
		logg:    logg,
		stock:   NewStockResolver(true, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// LoadProducts replaces the product collection and its brands.
func (l *Loader) LoadProducts(ctx context.Context) error {
	ctx = l.logg.WithResource(ctx, enums.ResourceProducts.String())
	records, err := l.fetcher.Fetch(ctx, enums.ResourceProducts)
	if err != nil {
		if l.sampleFallback && !l.store.Loaded().Products {
			l.store.SetProducts(l.normalizeProducts(ctx, sampleProducts), false)
			l.metrics.IncLoad(enums.ResourceProducts.String(), metrics.OutcomeSample)
		} else {
			l.metrics.IncLoad(enums.ResourceProducts.String(), metrics.OutcomeFailure)
		}
		l.logg.Error(ctx, "failed to load products", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Erro ao carregar produtos")
	}

	products := l.normalizeProducts(ctx, records)
	l.store.SetProducts(products, true)
	l.metrics.IncLoad(enums.ResourceProducts.String(), metrics.OutcomeSuccess)
	l.logg.Info(l.logg.WithField(ctx, "count", len(products)), "products loaded")
	return nil
}

// LoadUsers replaces the partner collection.
func (l *Loader) LoadUsers(ctx context.Context) error {
	ctx = l.logg.WithResource(ctx, enums.ResourceUsers.String())
	records, err := l.fetcher.Fetch(ctx, enums.ResourceUsers)
	if err != nil {
		if l.sampleFallback && !l.store.Loaded().Users {
			l.store.SetUsers(normalizeUsers(sampleUsers), false)
			l.metrics.IncLoad(enums.ResourceUsers.String(), metrics.OutcomeSample)
		} else {
			l.metrics.IncLoad(enums.ResourceUsers.String(), metrics.OutcomeFailure)
		}
		l.logg.Error(ctx, "failed to load users", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Erro ao carregar usuários")
	}

	users := normalizeUsers(records)
	l.store.SetUsers(users, true)
	l.metrics.IncLoad(enums.ResourceUsers.String(), metrics.OutcomeSuccess)
	l.logg.Info(l.logg.WithField(ctx, "count", len(users)), "users loaded")
	return nil
}

// LoadPaymentTerms replaces the payment term collection.
func (l *Loader) LoadPaymentTerms(ctx context.Context) error {
	ctx = l.logg.WithResource(ctx, enums.ResourcePaymentTerms.String())
	records, err := l.fetcher.Fetch(ctx, enums.ResourcePaymentTerms)
	if err != nil {
		if l.sampleFallback && !l.store.Loaded().PaymentTerms {
			l.store.SetPaymentTerms(normalizeTerms(samplePaymentTerms), false)
			l.metrics.IncLoad(enums.ResourcePaymentTerms.String(), metrics.OutcomeSample)
		} else {
			l.metrics.IncLoad(enums.ResourcePaymentTerms.String(), metrics.OutcomeFailure)
		}
		l.logg.Error(ctx, "failed to load payment terms", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Erro ao carregar prazos")
	}

	terms := normalizeTerms(records)
	l.store.SetPaymentTerms(terms, true)
	l.metrics.IncLoad(enums.ResourcePaymentTerms.String(), metrics.OutcomeSuccess)
	l.logg.Info(l.logg.WithField(ctx, "count", len(terms)), "payment terms loaded")
	return nil
}

// LoadAll runs the three loads concurrently and returns every failure combined.
func (l *Loader) LoadAll(ctx context.Context) error {
	loads := []func(context.Context) error{l.LoadProducts, l.LoadUsers, l.LoadPaymentTerms}
	errs := make([]error, len(loads))

	var g errgroup.Group
	for i, load := range loads {
		g.Go(func() error {
			errs[i] = load(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}

func (l *Loader) normalizeProducts(ctx context.Context, records []sheetapi.Record) []Product {
	l.pinMu.Lock()
	defer l.pinMu.Unlock()
	pins := l.stockPins(ctx)
	pinned := false

	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p := NewProduct(rec, l.stock)
		if p.StockSynthesized {
			if v, ok := pins[p.Code]; ok {
				p.Stock = v
			} else if p.Code != "" {
				pins[p.Code] = p.Stock
				pinned = true
			}
			l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
				"product_code": p.Code,
				"stock":        p.Stock,
			}), "product has no stock column, using placeholder stock")
		}
		products = append(products, p)
	}
	if pinned {
		l.saveStockPins(ctx, pins)
	}
	return products
}

// stockPins returns the pinned placeholder stock, reading the store on first use.
// Callers hold pinMu.
func (l *Loader) stockPins(ctx context.Context) map[string]int {
	if l.pins != nil {
		return l.pins
	}
	l.pins = map[string]int{}
	if l.pinStore == nil {
		return l.pins
	}
	raw, err := l.pinStore.Get(ctx, storage.StockPinsKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "failed to read pinned stock")
	default:
		if err := json.Unmarshal([]byte(raw), &l.pins); err != nil {
			l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "discarding malformed pinned stock")
			l.pins = map[string]int{}
		}
	}
	return l.pins
}

func (l *Loader) saveStockPins(ctx context.Context, pins map[string]int) {
	if l.pinStore == nil {
		return
	}
	payload, err := json.Marshal(pins)
	if err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "failed to encode pinned stock")
		return
	}
	if err := l.pinStore.Set(ctx, storage.StockPinsKey, string(payload)); err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "failed to persist pinned stock")
	}
}

func normalizeUsers(records []sheetapi.Record) []User {
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, NewUser(rec))
	}
	return users
}

func normalizeTerms(records []sheetapi.Record) []PaymentTerm {
	terms := make([]PaymentTerm, 0, len(records))
	for _, rec := range records {
		terms = append(terms, NewPaymentTerm(rec))
	}
	return terms
}
