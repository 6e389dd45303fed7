package catalog

import (
	"fmt"
	"strings"
)

// Filter returns the products matching brand (exact) and term (substring).
// Code, brand and description match case-insensitively; the barcode is matched
// as-is against the lowercased term.
func Filter(products []Product, term, brand string) []Product {
	out := make([]Product, 0, len(products))
	needle := strings.ToLower(term)
	for _, p := range products {
		if brand != "" && p.Brand != brand {
			continue
		}
		if needle != "" && !matchesTerm(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p Product, needle string) bool {
	return containsFold(p.Code, needle) ||
		containsFold(p.Brand, needle) ||
		containsFold(p.Description, needle) ||
		(p.Barcode != "" && strings.Contains(p.Barcode, needle))
}

func containsFold(field, lowered string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), lowered)
}

// ResultsLabel renders the result count shown above the catalog.
func ResultsLabel(n int) string {
	switch n {
	case 0:
		return "Nenhum produto encontrado"
	case 1:
		return "1 produto encontrado"
	default:
		return fmt.Sprintf("%d produtos encontrados", n)
	}
}

// Summary describes the active filters of a search pass. Total is the size of the
// whole catalog, not of the filtered result.
type Summary struct {
	Brand string `json:"brand,omitempty"`
	Term  string `json:"term,omitempty"`
	Total int    `json:"total"`
}

// Lines renders the filter summary text.
func (s Summary) Lines() []string {
	var lines []string
	if s.Brand != "" {
		lines = append(lines, fmt.Sprintf("Marca selecionada: %s", s.Brand))
	}
	if s.Term != "" {
		lines = append(lines, fmt.Sprintf("Pesquisa: \"%s\"", s.Term))
	}
	if len(lines) == 0 {
		lines = append(lines, fmt.Sprintf("Mostrando todos os produtos (%d)", s.Total))
	}
	return lines
}
