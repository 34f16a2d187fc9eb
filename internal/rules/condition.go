// internal/rules/condition.go

package rules

import "fmt"

// Comparison operators accepted by comparison-style condition params.
const (
	CompareEquals        = "equals"
	CompareNotEquals     = "not_equals"
	CompareGreaterThan   = "greater_than"
	CompareGreaterEquals = "greater_equals"
	CompareLessThan      = "less_than"
	CompareLessEquals    = "less_equals"
)

var SupportedComparisons = []string{
	CompareEquals,
	CompareNotEquals,
	CompareGreaterThan,
	CompareGreaterEquals,
	CompareLessThan,
	CompareLessEquals,
}

// IsComparison reports whether op names a supported comparison.
func IsComparison(op string) bool {
	for _, supported := range SupportedComparisons {
		if op == supported {
			return true
		}
	}
	return false
}

// Compare applies the comparison op to a and b.
func Compare(op string, a, b float64) (bool, error) {
	switch op {
	case CompareEquals:
		return a == b, nil
	case CompareNotEquals:
		return a != b, nil
	case CompareGreaterThan:
		return a > b, nil
	case CompareGreaterEquals:
		return a >= b, nil
	case CompareLessThan:
		return a < b, nil
	case CompareLessEquals:
		return a <= b, nil
	default:
		return false, fmt.Errorf("unsupported comparison '%s'", op)
	}
}
