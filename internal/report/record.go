package report

import "math"

// Record is one reported row: the step index, the iterate, and its absolute
// deviation from the known true solution.
type Record struct {
	Step  int
	Value float64
	Error float64
}

// Indexing selects how path elements map to reported step indices.
type Indexing int

const (
	// FromInitial reports every element, the initial draw as step 0.
	FromInitial Indexing = iota
	// AfterInitial omits the initial draw and reports element i as step i.
	AfterInitial
)

// String returns the indexing name used in run records.
func (ix Indexing) String() string {
	switch ix {
	case FromInitial:
		return "from-initial"
	case AfterInitial:
		return "after-initial"
	default:
		return "unknown"
	}
}

// Records derives the error rows for path against solution.
func Records(path []float64, solution float64, ix Indexing) []Record {
	start := 0
	if ix == AfterInitial {
		start = 1
	}
	if len(path) <= start {
		return []Record{}
	}

	records := make([]Record, 0, len(path)-start)
	for i := start; i < len(path); i++ {
		records = append(records, Record{
			Step:  i,
			Value: path[i],
			Error: math.Abs(path[i] - solution),
		})
	}
	return records
}
