package placement

// Level is one of the six ordered proficiency tiers.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
	C2 Level = "C2"
)

// Classify maps a percentage to a tier. Thresholds are evaluated
// highest-first, first match wins; values outside [0,100] land on the nearest
// boundary tier rather than erroring. The input is the UNROUNDED aggregate
// percentage.
func Classify(percentage float64) Level {
	switch {
	case percentage >= 91:
		return C2
	case percentage >= 81:
		return C1
	case percentage >= 66:
		return B2
	case percentage >= 51:
		return B1
	case percentage >= 31:
		return A2
	default:
		return A1
	}
}
