package entities

// PriceRange is a lower bound plus an optional upper bound, so open-ended
// brackets like "Br 200+" can be expressed with a nil Upper.
type PriceRange struct {
	Lower float64
	Upper *float64
}

// IsAny reports whether the range is the "Any Price" sentinel (0, nil).
// Filtering must treat the sentinel as no filter at all, never as a real
// bound.
func (r PriceRange) IsAny() bool {
	return r.Lower == 0 && r.Upper == nil
}

// Contains reports whether a price falls inside the range. The sentinel
// matches everything.
func (r PriceRange) Contains(price float64) bool {
	if r.IsAny() {
		return true
	}
	if price < r.Lower {
		return false
	}
	return r.Upper == nil || price <= *r.Upper
}

// PriceRangeOption pairs a display label with its range.
type PriceRangeOption struct {
	Label string
	Range PriceRange
}

func upper(v float64) *float64 { return &v }

// PriceRangeOptions are the predefined price brackets offered by the UI.
var PriceRangeOptions = []PriceRangeOption{
	{Label: "Any Price", Range: PriceRange{}},
	{Label: "Br 0 - 50", Range: PriceRange{Lower: 0, Upper: upper(50)}},
	{Label: "Br 50 - 100", Range: PriceRange{Lower: 50, Upper: upper(100)}},
	{Label: "Br 100 - 200", Range: PriceRange{Lower: 100, Upper: upper(200)}},
	{Label: "Br 200+", Range: PriceRange{Lower: 200}},
}

// PriceRangeForLabel resolves a display label to its range.
func PriceRangeForLabel(label string) (PriceRange, bool) {
	for _, opt := range PriceRangeOptions {
		if opt.Label == label {
			return opt.Range, true
		}
	}
	return PriceRange{}, false
}

// AnyLocation is the sentinel location option meaning no location filter.
const AnyLocation = "Any Location"

// LocationOptions are the predefined location filters offered by the UI.
var LocationOptions = []string{
	AnyLocation,
	"Bole",
	"CMC",
	"Piazza",
	"Gerji",
	"Ayat",
}
