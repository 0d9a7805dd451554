package domain

// VizFrame is the yearly summary rescaled for the terrain visualization.
// Every series is min-max normalized to [0, 1]; Cumulative normalizes the
// running sum of anomalies.
type VizFrame struct {
	Years      []int     `json:"years"`
	Anomaly    []float64 `json:"anomaly"`
	Cumulative []float64 `json:"cumulative"`
	Wind       []float64 `json:"wind"`
	Precip     []float64 `json:"precip"`
}

// BuildVizFrame normalizes the rows as written to the yearly table, so
// callers should pass rounded records.
func BuildVizFrame(rows []YearlyRecord) VizFrame {
	years := make([]int, len(rows))
	anomaly := make([]float64, len(rows))
	cumulative := make([]float64, len(rows))
	wind := make([]float64, len(rows))
	precip := make([]float64, len(rows))

	var acc float64
	for i, r := range rows {
		years[i] = r.Year
		anomaly[i] = r.TempAnomaly
		acc += r.TempAnomaly
		cumulative[i] = acc
		wind[i] = r.Wind
		precip[i] = r.Precip
	}

	return VizFrame{
		Years:      years,
		Anomaly:    normalize(anomaly),
		Cumulative: normalize(cumulative),
		Wind:       normalize(wind),
		Precip:     normalize(precip),
	}
}

// normalize rescales xs in place to [0, 1]. A flat series uses span 1.
func normalize(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, x := range xs {
		xs[i] = (x - lo) / span
	}
	return xs
}
