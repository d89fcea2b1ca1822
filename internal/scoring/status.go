package scoring

import "math/big"

// Status is the maturity band derived from a percentage.
type Status string

const (
	StatusPoor      Status = "poor"
	StatusFair      Status = "fair"
	StatusGood      Status = "good"
	StatusExcellent Status = "excellent"
)

// Statuses lists every band from worst to best.
var Statuses = []Status{StatusPoor, StatusFair, StatusGood, StatusExcellent}

// Band thresholds, inclusive lower bounds.
const (
	ExcellentThreshold = 80.0
	GoodThreshold      = 60.0
	FairThreshold      = 40.0
)

// Classify maps a percentage to its band:
//
//	>= 80 excellent, >= 60 good, >= 40 fair, otherwise poor.
func Classify(percentage float64) Status {
	switch {
	case percentage >= ExcellentThreshold:
		return StatusExcellent
	case percentage >= GoodThreshold:
		return StatusGood
	case percentage >= FairThreshold:
		return StatusFair
	default:
		return StatusPoor
	}
}

// classifyExact is Classify for an exact percentage.
func classifyExact(percentage *big.Rat) Status {
	switch {
	case percentage.Cmp(big.NewRat(ExcellentThreshold, 1)) >= 0:
		return StatusExcellent
	case percentage.Cmp(big.NewRat(GoodThreshold, 1)) >= 0:
		return StatusGood
	case percentage.Cmp(big.NewRat(FairThreshold, 1)) >= 0:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Rank orders bands: poor=0, fair=1, good=2, excellent=3. Unknown values rank -1.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Label is the human wording used in reports.
func (s Status) Label() string {
	switch s {
	case StatusExcellent:
		return "Excellent"
	case StatusGood:
		return "Good"
	case StatusFair:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
