package adaptive

import (
	"math"
	"sort"
)

// WeightTrend fits an ordinary least-squares line to the last windowDays
// weight observations and returns the weekly rate of change (kg/week) plus a
// confidence score (R² of the fit, in [0,1]). Fewer than two observations
// yields (0, 0) — never an error.
//
// The regression runs against observation index, not calendar date: gaps in
// logging are treated as equally spaced points. That biases the trend when
// logging is irregular, but it is the established behavior that downstream
// confidence weights were tuned against, so it is kept deliberately.
func (e *Engine) WeightTrend(obs []WeightObservation, windowDays int) (weeklyTrendKG, confidence float64) {
	if windowDays <= 0 {
		windowDays = e.TrendWindowDays
	}
	if len(obs) < 2 {
		return 0, 0
	}

	window := lastWeights(obs, windowDays)
	if len(window) < 2 {
		return 0, 0
	}

	// Defensive re-sort: callers promise chronological order, but the fit
	// is meaningless if that promise is broken.
	sorted := make([]WeightObservation, len(window))
	copy(sorted, window)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	n := float64(len(sorted))
	var sumX, sumY float64
	for i, o := range sorted {
		sumX += float64(i)
		sumY += o.WeightKG
	}
	meanX := sumX / n
	meanY := sumY / n

	var covXY, varX, varY float64
	for i, o := range sorted {
		dx := float64(i) - meanX
		dy := o.WeightKG - meanY
		covXY += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	// varX is positive for n >= 2 (indices are distinct); varY is zero for
	// a perfectly flat series, where correlation is undefined — resolve to
	// zero confidence rather than NaN.
	slope := covXY / varX
	weeklyTrendKG = slope * 7

	if varY == 0 {
		return weeklyTrendKG, 0
	}
	r := covXY / math.Sqrt(varX*varY)
	return weeklyTrendKG, r * r
}
