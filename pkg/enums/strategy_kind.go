package enums

import "fmt"

// StrategyKind tags how an order is delivered to the backend.
type StrategyKind string

const (
	StrategyAggregated StrategyKind = "aggregated"
	StrategySequential StrategyKind = "sequential"
	StrategyProbed     StrategyKind = "probed"
)

var validStrategyKinds = []StrategyKind{
	StrategyAggregated,
	StrategySequential,
	StrategyProbed,
}

// String implements fmt.Stringer.
func (s StrategyKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StrategyKind.
func (s StrategyKind) IsValid() bool {
	for _, candidate := range validStrategyKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStrategyKind converts raw input into a StrategyKind.
func ParseStrategyKind(value string) (StrategyKind, error) {
	for _, candidate := range validStrategyKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid strategy kind %q", value)
}
