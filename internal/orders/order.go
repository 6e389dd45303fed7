package orders

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/pkg/enums"
)

// StatusPending is the status every new order is created with.
const StatusPending = "Pendente"

// Line is one order line as the backend receives it.
type Line struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descricao"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"valorUnitario"`
	LineTotal   float64 `json:"valorTotal"`
}

// Order is assembled from the cart and the form at submission time and never
// changes after it is sent.
type Order struct {
	Number  string
	Email   string
	Notes   string
	UserRef string
	TermRef string
	Status  string
	Lines   []Line
}

// LinesFromCart snapshots the cart lines.
func LinesFromCart(items []cart.Item) []Line {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			Code:        it.Code,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return lines
}

func (o Order) header(includeNumber bool) url.Values {
	form := url.Values{}
	form.Set("recurso", enums.ResourceOrders.String())
	if includeNumber {
		form.Set("numeroPedido", o.Number)
	}
	form.Set("email", o.Email)
	form.Set("observacoes", o.Notes)
	form.Set("usuario", o.UserRef)
	form.Set("prazo", o.TermRef)
	form.Set("status", o.Status)
	return form
}

// AggregatedForm encodes the whole order in one form; lines go in `itens` as JSON.
func (o Order) AggregatedForm(includeNumber, batchMode bool) (url.Values, error) {
	form := o.header(includeNumber)
	items, err := encodeLines(o.Lines)
	if err != nil {
		return nil, err
	}
	form.Set("itens", items)
	if batchMode {
		form.Set("modo", "lote")
	}
	return form, nil
}

// ItemForm encodes line i as a standalone request; numeroItem is 1-based.
func (o Order) ItemForm(i int) url.Values {
	line := o.Lines[i]
	form := o.header(true)
	form.Set("numeroItem", strconv.Itoa(i+1))
	form.Set("codigo", line.Code)
	form.Set("descricao", line.Description)
	form.Set("quantidade", strconv.Itoa(line.Quantity))
	form.Set("valorUnitario", formatAmount(line.UnitPrice))
	form.Set("valorTotal", formatAmount(line.LineTotal))
	return form
}

func encodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(lines); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
