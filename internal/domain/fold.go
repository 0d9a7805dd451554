package domain

// FoldKind selects how a Fold reduces the non-missing values of a window.
type FoldKind int

const (
	// FoldMean averages the values, or yields the fallback when none exist.
	FoldMean FoldKind = iota
	// FoldMeanOrDrop averages the values, or drops the window when none exist.
	FoldMeanOrDrop
	// FoldSum totals the values, or yields the fallback when none exist.
	FoldSum
)

// Fold reduces one metric over a grouping window. Missing values are
// skipped before reduction.
type Fold struct {
	Kind     FoldKind
	Fallback float64
}

// Mean returns a mean fold with a sparsity fallback.
func Mean(fallback float64) Fold { return Fold{Kind: FoldMean, Fallback: fallback} }

// MeanOrDrop returns a mean fold that drops empty windows.
func MeanOrDrop() Fold { return Fold{Kind: FoldMeanOrDrop} }

// Sum returns a summing fold with a sparsity fallback.
func Sum(fallback float64) Fold { return Fold{Kind: FoldSum, Fallback: fallback} }

// Apply folds values. ok is false only when a MeanOrDrop fold sees no value,
// meaning the whole window must be dropped.
func (f Fold) Apply(values []*float64) (result float64, ok bool) {
	var sum float64
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}

	if n == 0 {
		if f.Kind == FoldMeanOrDrop {
			return 0, false
		}
		return f.Fallback, true
	}
	if f.Kind == FoldSum {
		return sum, true
	}
	return sum / float64(n), true
}

// Fallbacks are the sparsity defaults for the optional monthly fields.
type Fallbacks struct {
	Humidity float64 // percent
	Wind     float64 // m/s
	Precip   float64 // mm
}

// DefaultFallbacks returns the defaults used by the reference data set.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{Humidity: 60.0, Wind: 3.0, Precip: 0.0}
}

// MonthlyPolicy assigns a Fold to each monthly field.
type MonthlyPolicy struct {
	Temp     Fold
	Humidity Fold
	Wind     Fold
	Precip   Fold
}

// NewMonthlyPolicy builds the monthly policy: temperature is mandatory,
// humidity and wind are averaged, precipitation is summed.
func NewMonthlyPolicy(f Fallbacks) MonthlyPolicy {
	return MonthlyPolicy{
		Temp:     MeanOrDrop(),
		Humidity: Mean(f.Humidity),
		Wind:     Mean(f.Wind),
		Precip:   Sum(f.Precip),
	}
}

// NewYearlyPolicy builds the yearly policy: a year without any temperature
// is dropped, every other field is averaged. Precipitation is averaged too,
// so a year built from monthly rows carries its average monthly total.
func NewYearlyPolicy(f Fallbacks) MonthlyPolicy {
	return MonthlyPolicy{
		Temp:     MeanOrDrop(),
		Humidity: Mean(f.Humidity),
		Wind:     Mean(f.Wind),
		Precip:   Mean(f.Precip),
	}
}
