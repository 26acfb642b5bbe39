package measurement

import "sort"

// LayerSummary aggregates the measurements of one layer
type LayerSummary struct {
	Name    string
	Visible bool
	Count   int
	// Totals per unit, e.g. feet and point on the distance layer
	Totals map[string]float64
}

// Summary contains the totals of a takeoff
type Summary struct {
	Layers      []LayerSummary
	TotalLength float64
	TotalArea   float64
	ItemCount   int
	Calibrated  bool
}

// Summarize computes per-layer and overall totals. Calibration records are
// listed but not added to the length total.
func Summarize(layers []Layer) *Summary {
	result := &Summary{Layers: make([]LayerSummary, 0, len(layers))}

	for _, layer := range layers {
		ls := LayerSummary{
			Name:    layer.Name,
			Visible: layer.Visible,
			Count:   len(layer.Measurements),
			Totals:  make(map[string]float64),
		}
		for _, m := range layer.Measurements {
			ls.Totals[m.Unit] += m.Value
			switch m.Kind {
			case KindDistance:
				result.TotalLength += m.Value
			case KindArea:
				result.TotalArea += m.Value
			case KindCount:
				result.ItemCount++
			case KindCalibration:
				result.Calibrated = true
			}
		}
		result.Layers = append(result.Layers, ls)
	}

	return result
}

// Filter returns the measurements of the given kind
func Filter(measurements []Measurement, kind Kind) []Measurement {
	var out []Measurement
	for _, m := range measurements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Largest returns the count measurements with the largest values
func Largest(measurements []Measurement, count int) []Measurement {
	sorted := make([]Measurement, len(measurements))
	copy(sorted, measurements)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	if count > len(sorted) {
		count = len(sorted)
	}

	return sorted[:count]
}
