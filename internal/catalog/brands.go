package catalog

import (
	"slices"
	"strings"
)

// ExtractBrands returns the distinct non-blank brands, sorted.
func ExtractBrands(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	brands := make([]string, 0)
	for _, p := range products {
		if strings.TrimSpace(p.Brand) == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	slices.Sort(brands)
	return brands
}
