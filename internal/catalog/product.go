package catalog

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/lanort/pedidos/pkg/money"
	"github.com/lanort/pedidos/pkg/sheetapi"
)

const (
	syntheticStockMin  = 10
	syntheticStockSpan = 50
)

// Product is a catalog row normalized from the spreadsheet headers.
type Product struct {
	Code             string  `json:"code"`
	Brand            string  `json:"brand"`
	Description      string  `json:"description"`
	Barcode          string  `json:"barcode"`
	RawPrice         any     `json:"rawPrice,omitempty"`
	UnitPrice        float64 `json:"unitPrice"`
	Stock            int     `json:"stock"`
	StockSynthesized bool    `json:"stockSynthesized"`
	ImageURL         string  `json:"imageUrl,omitempty"`
}

// HasImage reports whether the product carries an image reference.
func (p Product) HasImage() bool {
	return p.ImageURL != ""
}

// StockLevel buckets the stock the way the catalog cards highlight it.
type StockLevel string

const (
	StockOut    StockLevel = "out"
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockHigh   StockLevel = "high"
)

func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock < 10:
		return StockLow
	case p.Stock < 30:
		return StockMedium
	default:
		return StockHigh
	}
}

// MarshalJSON adds the derived stock level to the product fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		StockLevel StockLevel `json:"stockLevel"`
	}{product: product(p), StockLevel: p.StockLevel()})
}

// StockResolver decides the stock of a product row. Rows without a usable stock
// column get placeholder stock when synthesis is enabled.
type StockResolver struct {
	synthesize bool
	intn       func(n int) int
}

// NewStockResolver builds a resolver; intn defaults to math/rand/v2.IntN.
func NewStockResolver(synthesize bool, intn func(n int) int) StockResolver {
	if intn == nil {
		intn = rand.IntN
	}
	return StockResolver{synthesize: synthesize, intn: intn}
}

// Resolve returns the stock for rec and whether it was synthesized. The first stock
// column that is present and parses as an integer wins, zero included.
func (r StockResolver) Resolve(rec sheetapi.Record) (int, bool) {
	for _, key := range productStockKeys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := parseIntPrefix(v); ok {
			if n < 0 {
				n = 0
			}
			return n, false
		}
	}
	if !r.synthesize {
		return 0, false
	}
	intn := r.intn
	if intn == nil {
		intn = rand.IntN
	}
	return intn(syntheticStockSpan) + syntheticStockMin, true
}

// NewProduct normalizes a spreadsheet row.
func NewProduct(rec sheetapi.Record, stock StockResolver) Product {
	raw := firstTruthy(rec, productPriceKeys)
	qty, synthesized := stock.Resolve(rec)
	return Product{
		Code:             textField(rec, productCodeKeys),
		Brand:            textField(rec, productBrandKeys),
		Description:      textField(rec, productDescriptionKeys),
		Barcode:          textField(rec, productBarcodeKeys),
		RawPrice:         raw,
		UnitPrice:        money.ParsePrice(raw),
		Stock:            qty,
		StockSynthesized: synthesized,
		ImageURL:         textField(rec, productImageKeys),
	}
}
