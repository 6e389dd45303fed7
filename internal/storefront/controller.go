// Package storefront is the single entry point to catalog, cart and order state.
// HTTP handlers and CLI commands go through a Controller and never touch the
// underlying stores directly.
package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/internal/orders"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/storage"
)

// Params wires a Controller.
type Params struct {
	Store     *catalog.Store
	Loader    *catalog.Loader
	Searcher  *catalog.Searcher
	Cart      *cart.Manager
	Selection *cart.Selection
	Orders    *orders.Service
	Storage   storage.KeyValue
	Debounce  time.Duration
	Logger    *logger.Logger
}

type Controller struct {
	store     *catalog.Store
	loader    *catalog.Loader
	searcher  *catalog.Searcher
	cart      *cart.Manager
	selection *cart.Selection
	orders    *orders.Service
	storage   storage.KeyValue
	debounce  time.Duration
	logg      *logger.Logger
}

func NewController(p Params) (*Controller, error) {
	switch {
	case p.Store == nil:
		return nil, fmt.Errorf("catalog store required")
	case p.Loader == nil:
		return nil, fmt.Errorf("catalog loader required")
	case p.Searcher == nil:
		return nil, fmt.Errorf("catalog searcher required")
	case p.Cart == nil:
		return nil, fmt.Errorf("cart manager required")
	case p.Orders == nil:
		return nil, fmt.Errorf("order service required")
	case p.Storage == nil:
		return nil, fmt.Errorf("storage required")
	}
	if p.Selection == nil {
		p.Selection = cart.NewSelection()
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	return &Controller{
		store:     p.Store,
		loader:    p.Loader,
		searcher:  p.Searcher,
		cart:      p.Cart,
		selection: p.Selection,
		orders:    p.Orders,
		storage:   p.Storage,
		debounce:  p.Debounce,
		logg:      p.Logger,
	}, nil
}

// Start restores the cart and loads reference data. Load failures are returned for
// reporting; the controller stays usable and loads can be retried with Reload.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.cart.Restore(ctx); err != nil {
		return err
	}
	if err := c.loader.LoadAll(ctx); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reference data partially unavailable")
		return err
	}
	return nil
}

// Reload fetches every reference collection again.
func (c *Controller) Reload(ctx context.Context) (catalog.LoadState, error) {
	err := c.loader.LoadAll(ctx)
	return c.store.Loaded(), err
}

func (c *Controller) LoadState() catalog.LoadState {
	return c.store.Loaded()
}

// Ready checks storage and reports which collections are loaded.
func (c *Controller) Ready(ctx context.Context) (catalog.LoadState, error) {
	state := c.store.Loaded()
	if err := c.storage.Ping(ctx); err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage unavailable")
	}
	return state, nil
}

func (c *Controller) Search(ctx context.Context, term, brand string) (*catalog.SearchResult, error) {
	return c.searcher.Search(ctx, term, brand)
}

// DebouncedSearch returns a search that fires once typed input settles.
func (c *Controller) DebouncedSearch(onResult func(*catalog.SearchResult, error)) *catalog.DebouncedSearch {
	return catalog.NewDebouncedSearch(c.searcher, c.debounce, onResult)
}

func (c *Controller) Brands() []string {
	return c.store.Brands()
}

func (c *Controller) Users() []catalog.User {
	return c.store.Users()
}

func (c *Controller) PaymentTerms() []catalog.PaymentTerm {
	return c.store.PaymentTerms()
}

// CartView is the cart as shown to the user.
type CartView struct {
	Items   []cart.Item  `json:"items"`
	Summary cart.Summary `json:"summary"`
}

func (c *Controller) Cart() CartView {
	return CartView{Items: c.cart.Items(), Summary: c.cart.Summary()}
}

// AddToCart adds qty units and resets the pending selection of the product.
func (c *Controller) AddToCart(ctx context.Context, code string, qty int) (*cart.Item, error) {
	item, err := c.cart.Add(ctx, code, qty)
	if err != nil {
		return nil, err
	}
	c.selection.Reset(code)
	return item, nil
}

// AddSelected adds the pending selection of a product to the cart.
func (c *Controller) AddSelected(ctx context.Context, code string) (*cart.Item, error) {
	return c.AddToCart(ctx, code, c.selection.Get(code))
}

func (c *Controller) AdjustCartItem(ctx context.Context, index, delta int) (*cart.UpdateResult, error) {
	return c.cart.Adjust(ctx, index, delta)
}

func (c *Controller) SetCartItemQuantity(ctx context.Context, index, qty int) (*cart.UpdateResult, error) {
	return c.cart.SetQuantity(ctx, index, qty)
}

func (c *Controller) RemoveCartItem(ctx context.Context, index int) error {
	return c.cart.Remove(ctx, index)
}

func (c *Controller) ClearCart(ctx context.Context) error {
	return c.cart.Clear(ctx)
}

// ClearSelections drops every pending quantity, as clearing the search does.
func (c *Controller) ClearSelections() {
	c.selection.Clear()
}

// SelectionView is the pending quantity of a product with its line total preview.
type SelectionView struct {
	Code     string  `json:"code"`
	Quantity int     `json:"quantity"`
	Stock    int     `json:"stock"`
	Preview  float64 `json:"preview"`
}

// AdjustSelection moves the pending quantity of a product by delta.
func (c *Controller) AdjustSelection(code string, delta int) SelectionView {
	price, stock := c.selectionBounds(code)
	qty := c.selection.Adjust(code, delta, stock)
	return SelectionView{Code: code, Quantity: qty, Stock: stock, Preview: c.selection.Preview(code, price)}
}

// SetSelection replaces the pending quantity of a product.
func (c *Controller) SetSelection(code string, qty int) SelectionView {
	price, stock := c.selectionBounds(code)
	qty = c.selection.Set(code, qty, stock)
	return SelectionView{Code: code, Quantity: qty, Stock: stock, Preview: c.selection.Preview(code, price)}
}

func (c *Controller) selectionBounds(code string) (float64, int) {
	if p, ok := c.store.Product(code); ok {
		return p.UnitPrice, p.Stock
	}
	return 0, cart.UnknownProductStock
}

// SubmitOrder sends the cart as an order.
func (c *Controller) SubmitOrder(ctx context.Context, form orders.Form) (*orders.Outcome, error) {
	return c.orders.Submit(ctx, form)
}

// OrderHistory is the last issued order number and the outcome of the latest
// submission delivered by this process.
type OrderHistory struct {
	LastNumber string          `json:"lastNumber,omitempty"`
	Outcome    *orders.Outcome `json:"outcome,omitempty"`
}

func (c *Controller) LastOrder(ctx context.Context) (OrderHistory, error) {
	number, err := c.orders.LastNumber(ctx)
	if err != nil {
		return OrderHistory{}, err
	}
	return OrderHistory{LastNumber: number, Outcome: c.orders.LastOutcome()}, nil
}

func (c *Controller) SubmissionState() string {
	return c.orders.State().String()
}
