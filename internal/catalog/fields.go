package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lanort/pedidos/pkg/sheetapi"
)

// Spreadsheet header aliases, in lookup order.
var (
	productCodeKeys        = []string{"Código", "codigo", "id"}
	productBrandKeys       = []string{"Marca", "marca"}
	productDescriptionKeys = []string{"Descrição", "descricao"}
	productBarcodeKeys     = []string{"Código de Barra", "codigo_barras", "barcode"}
	productPriceKeys       = []string{"Preço", "preco", "price"}
	productStockKeys       = []string{"Estoque", "estoque", "Stock", "stock", "Quantidade", "quantidade"}
	productImageKeys       = []string{"imagem"}

	userCodeKeys = []string{"Cód. Parceiro", "codigo", "id"}
	userNameKeys = []string{"Nome Parceiro", "nome", "Nome"}

	termTypeKeys        = []string{"Tipo de Negociação", "tipo", "Tipo"}
	termDescriptionKeys = []string{"Descrição", "descricao", "Descricao"}
)

var intPrefix = regexp.MustCompile(`^[+-]?\d+`)

// firstTruthy returns the first alias whose value is set and not empty, zero or false.
func firstTruthy(rec sheetapi.Record, keys []string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func textField(rec sheetapi.Record, keys []string) string {
	return stringOf(firstTruthy(rec, keys))
}

// parseIntPrefix reads the leading integer of v the way a lenient spreadsheet reader
// would: "12 un" is 12, 7.9 is 7, "abc" does not parse.
func parseIntPrefix(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		match := intPrefix.FindString(strings.TrimSpace(t))
		if match == "" {
			return 0, false
		}
		n, err := strconv.Atoi(match)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
