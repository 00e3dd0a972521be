package recorder

import "math"

// truthy reports whether an info value counts as set for classification.
// Mirrors the loose semantics downstream annotators expect: nil, false,
// empty strings, and numeric zero do not flag a record as errored.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// roundSig rounds x to the given number of significant digits.
func roundSig(x float64, digits int) float64 {
	if x == 0 {
		return 0
	}
	mag := math.Ceil(math.Log10(math.Abs(x)))
	scale := math.Pow(10, float64(digits)-mag)
	return math.Round(x*scale) / scale
}
