package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{Code: "A1", Brand: "ACME", Description: "Álcool gel 200ml", Barcode: "789ABC", UnitPrice: 7.25, Stock: 5},
		{Code: "A2", Brand: "ACME", Description: "Álcool gel 500ml", Barcode: "789DEF", UnitPrice: 13.4, Stock: 0},
		{Code: "L1", Brand: "LANORT", Description: "Detergente 200ml", Barcode: "123", UnitPrice: 4.59, Stock: 48},
		{Code: "X1", Brand: " ", Description: "Sem marca"},
	}
}

func TestFilterBrandAndTerm(t *testing.T) {
	got := Filter(testProducts(), "200ml", "ACME")
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].Code)
	assert.Equal(t, "1 produto encontrado", ResultsLabel(len(got)))
}

func TestFilterTermIsCaseInsensitiveExceptBarcode(t *testing.T) {
	assert.Len(t, Filter(testProducts(), "DETERGENTE", ""), 1)
	assert.Len(t, Filter(testProducts(), "lanort", ""), 1)
	assert.Len(t, Filter(testProducts(), "a2", ""), 1)

	// Barcodes hold upper-case letters; the lowered term never matches them.
	assert.Empty(t, Filter(testProducts(), "789ABC", ""))
	assert.Len(t, Filter(testProducts(), "123", ""), 1)
}

func TestFilterBrandIsExact(t *testing.T) {
	assert.Empty(t, Filter(testProducts(), "", "acme"))
	assert.Len(t, Filter(testProducts(), "", "ACME"), 2)
	assert.Len(t, Filter(testProducts(), "", ""), 4)
}

func TestResultsLabel(t *testing.T) {
	assert.Equal(t, "Nenhum produto encontrado", ResultsLabel(0))
	assert.Equal(t, "1 produto encontrado", ResultsLabel(1))
	assert.Equal(t, "12 produtos encontrados", ResultsLabel(12))
}

func TestSummaryLines(t *testing.T) {
	assert.Equal(t, []string{"Mostrando todos os produtos (4)"}, Summary{Total: 4}.Lines())
	assert.Equal(t,
		[]string{"Marca selecionada: ACME", `Pesquisa: "gel"`},
		Summary{Brand: "ACME", Term: "gel", Total: 4}.Lines(),
	)
}

func TestExtractBrands(t *testing.T) {
	assert.Equal(t, []string{"ACME", "LANORT"}, ExtractBrands(testProducts()))
	assert.Empty(t, ExtractBrands(nil))
}
