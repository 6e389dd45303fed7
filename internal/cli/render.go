package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/internal/storefront"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/money"
)

// describe renders err with its field details, if any.
func describe(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err.Error()
	}
	msg := typed.Message()
	if msg == "" {
		msg = err.Error()
	}

	var fields []string
	switch d := typed.Details().(type) {
	case map[string]string:
		for k, v := range d {
			fields = append(fields, fmt.Sprintf("%s: %s", k, v))
		}
	case map[string]any:
		for k, v := range d {
			fields = append(fields, fmt.Sprintf("%s: %v", k, v))
		}
	}
	if len(fields) == 0 {
		return msg
	}
	sort.Strings(fields)
	return msg + "\n  - " + strings.Join(fields, "\n  - ")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func brl(v float64) string {
	return "R$ " + money.FormatBRL(v)
}

var stockLevelLabels = map[catalog.StockLevel]string{
	catalog.StockOut:    "esgotado",
	catalog.StockLow:    "baixo",
	catalog.StockMedium: "médio",
	catalog.StockHigh:   "alto",
}

func printSearch(w io.Writer, res *catalog.SearchResult) {
	if res.Warning != "" {
		fmt.Fprintf(w, "⚠️  %s\n", res.Warning)
	}
	for _, line := range res.Lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, res.Label)
	if len(res.Products) == 0 {
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "CÓDIGO\tMARCA\tDESCRIÇÃO\tPREÇO\tESTOQUE\tNÍVEL")
	for _, p := range res.Products {
		stock := fmt.Sprintf("%d", p.Stock)
		if p.StockSynthesized {
			stock += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Code, p.Brand, p.Description, brl(p.UnitPrice), stock, stockLevelLabels[p.StockLevel()])
	}
	_ = tw.Flush()
}

func printCart(w io.Writer, view storefront.CartView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "O carrinho está vazio!")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tCÓDIGO\tDESCRIÇÃO\tQTD\tUNITÁRIO\tTOTAL")
	for i, item := range view.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", i+1, item.Code, item.Description, item.Quantity,
			brl(item.UnitPrice), brl(item.LineTotal))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Total: R$ %s\n", view.Summary.FormattedTotal)
}

func printOutcome(w io.Writer, outcome *orders.Outcome) {
	fmt.Fprintln(w, outcome.Message)
	for _, e := range outcome.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}
