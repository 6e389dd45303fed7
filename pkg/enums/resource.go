package enums

import "fmt"

// Resource names a collection exposed by the spreadsheet API through `?recurso=`.
type Resource string

const (
	ResourceProducts     Resource = "produtos"
	ResourceUsers        Resource = "usuarios"
	ResourcePaymentTerms Resource = "prazos"
	ResourceProbe        Resource = "teste"
	ResourceOrders       Resource = "pedidos"
)

var validResources = []Resource{
	ResourceProducts,
	ResourceUsers,
	ResourcePaymentTerms,
	ResourceProbe,
	ResourceOrders,
}

// String implements fmt.Stringer.
func (r Resource) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Resource.
func (r Resource) IsValid() bool {
	for _, candidate := range validResources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResource converts raw input into a Resource.
func ParseResource(value string) (Resource, error) {
	for _, candidate := range validResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource %q", value)
}
