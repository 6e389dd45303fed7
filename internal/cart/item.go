package cart

import "github.com/lanort/pedidos/pkg/money"

// Item is one cart line. JSON keys match the persisted cart format.
type Item struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descricao"`
	Brand       string  `json:"marca"`
	UnitPrice   float64 `json:"precoUnitario"`
	Quantity    int     `json:"quantidade"`
	LineTotal   float64 `json:"valorTotal"`
	Stock       int     `json:"estoque"`
	ImageURL    string  `json:"imagem"`
	HasImage    bool    `json:"hasImage"`
}

func (i *Item) recompute() {
	i.LineTotal = money.LineTotal(i.UnitPrice, i.Quantity)
}

// Summary is the cart footer: line count and total.
type Summary struct {
	Lines          int     `json:"lines"`
	Total          float64 `json:"total"`
	FormattedTotal string  `json:"formattedTotal"`
	Visible        bool    `json:"visible"`
}

func summarize(items []Item) Summary {
	totals := make([]float64, 0, len(items))
	for _, it := range items {
		totals = append(totals, it.LineTotal)
	}
	total := money.Sum(totals...)
	return Summary{
		Lines:          len(items),
		Total:          total,
		FormattedTotal: money.FormatBRL(total),
		Visible:        len(items) > 0,
	}
}
