// Package adaptive infers a user's true daily energy expenditure (TDEE) from
// longitudinal weight and calorie-intake logs, the way adaptive-calorie apps
// do: average intake plus the caloric equivalent of the observed weight
// trend. When history is too thin it falls back to the Mifflin-St Jeor
// population formula at reduced confidence. Every operation is a pure
// function of the profile and history handed to it — safe to call
// concurrently for different users with no synchronization.
package adaptive

import (
	"fmt"
	"math"
)

// Physical and policy constants. caloriesPerKG is the energy content of one
// kg of adipose tissue; defaultWeightKG is used only when a user has no
// weight history at all.
const (
	caloriesPerKG   = 7700.0
	defaultBMR      = 1800.0
	defaultWeightKG = 70.0
)

// Engine computes TDEE estimates. It holds tuning knobs, never per-user
// state — construct once and share freely.
type Engine struct {
	// MinDataDays is the minimum number of daily intake records (and of
	// valid logged days among them) required before the energy-balance
	// method is trusted over the population formula.
	MinDataDays int
	// TrendWindowDays is how many recent weight observations feed the
	// linear trend fit.
	TrendWindowDays int
	// AnalysisWindowDays caps how far back intake and weight history are
	// considered.
	AnalysisWindowDays int
	// ConfidenceThreshold gates persisted goal updates.
	ConfidenceThreshold float64
	// MaxChangeRatio bounds how far one estimate may move from the
	// previously persisted TDEE (smoothing against noisy short windows).
	MaxChangeRatio float64
	// MinRelativeChange is the relative TDEE delta below which a
	// re-estimate is not worth persisting (prevents goal churn).
	MinRelativeChange float64
}

// NewEngine returns an Engine with the standard tuning.
func NewEngine() *Engine {
	return &Engine{
		MinDataDays:         14,
		TrendWindowDays:     14,
		AnalysisWindowDays:  30,
		ConfidenceThreshold: 0.7,
		MaxChangeRatio:      0.15,
		MinRelativeChange:   0.05,
	}
}

// AdaptiveTDEE estimates the user's TDEE from logged intake and observed
// weight change. Selection between methods:
//
//  1. fewer than MinDataDays intake records at all → traditional, confidence 0.3
//  2. fewer than MinDataDays days actually logged  → traditional_fallback, confidence 0.4
//  3. otherwise → energy-balance estimate, method "adaptive"
//
// Insufficient data is a policy fallback, never an error — this function
// always returns a usable Estimate.
func (e *Engine) AdaptiveTDEE(p *Profile, intake []IntakeRecord, weights []WeightObservation) Estimate {
	if len(intake) < e.MinDataDays {
		return e.traditionalEstimate(p, weights, MethodTraditional, 0.3,
			FactorInsufficientData, "Not enough logged days yet, using the formula-based estimate")
	}

	// Analyze only the most recent window.
	recentIntake := lastIntake(intake, e.AnalysisWindowDays)
	recentWeights := lastWeights(weights, e.AnalysisWindowDays)

	validDays := make([]IntakeRecord, 0, len(recentIntake))
	for _, r := range recentIntake {
		if r.ConsumedCalories > 0 {
			validDays = append(validDays, r)
		}
	}
	if len(validDays) < e.MinDataDays {
		return e.traditionalEstimate(p, recentWeights, MethodTraditionalFallback, 0.4,
			FactorInsufficientValidDays, "Too few days with logged intake, using the formula-based estimate")
	}

	weeklyTrend, trendConfidence := e.WeightTrend(recentWeights, e.TrendWindowDays)

	var totalCalories float64
	for _, r := range validDays {
		totalCalories += r.ConsumedCalories
	}
	avgCalories := totalCalories / float64(len(validDays))

	// Energy-balance identity: spread the caloric equivalent of the
	// observed weight change (7700 kcal per kg) over the analyzed days and
	// add it to average intake. The signed trend handles gain and loss.
	daysAnalyzed := float64(len(validDays))
	totalWeightChange := weeklyTrend * (daysAnalyzed / 7)
	caloricAdjustment := (totalWeightChange * caloriesPerKG) / daysAnalyzed
	estimatedTDEE := avgCalories + caloricAdjustment

	// Composite confidence from three independent signals.
	loggingConsistency := float64(len(validDays)) / float64(len(recentIntake))
	stabilityScore := intakeStability(validDays, avgCalories)
	confidence := 0.4*trendConfidence + 0.3*loggingConsistency + 0.3*stabilityScore

	intakeCV := intakeVariation(validDays, avgCalories)
	factors := []string{}
	if trendConfidence > 0.7 {
		factors = append(factors, FactorStrongWeightTrend)
	}
	if loggingConsistency > 0.8 {
		factors = append(factors, FactorConsistentLogging)
	}
	if math.Abs(weeklyTrend) < 0.1 {
		factors = append(factors, FactorStableWeight)
	}
	if intakeCV < 0.2 {
		factors = append(factors, FactorConsistentIntake)
	}

	var rationale string
	switch {
	case weeklyTrend > 0.2:
		rationale = fmt.Sprintf("Gaining %.1f kg/week, adjusting TDEE from energy balance", math.Abs(weeklyTrend))
	case weeklyTrend < -0.2:
		rationale = fmt.Sprintf("Losing %.1f kg/week, adjusting TDEE from energy balance", math.Abs(weeklyTrend))
	default:
		rationale = "Weight stable, TDEE from energy balance"
	}

	// Smooth against the previously persisted value so one noisy window
	// cannot swing the estimate more than MaxChangeRatio.
	if p.EstimatedTDEE != nil && *p.EstimatedTDEE > 0 {
		maxChange := *p.EstimatedTDEE * e.MaxChangeRatio
		diff := estimatedTDEE - *p.EstimatedTDEE
		if math.Abs(diff) > maxChange {
			if diff > 0 {
				estimatedTDEE = *p.EstimatedTDEE + maxChange
			} else {
				estimatedTDEE = *p.EstimatedTDEE - maxChange
			}
			factors = append(factors, FactorSmoothedChange)
		}
	}

	return Estimate{
		EstimatedTDEE: math.Round(estimatedTDEE),
		Confidence:    math.Min(confidence, 1.0),
		Method:        MethodAdaptive,
		Factors:       factors,
		Rationale:     rationale,
	}
}

// traditionalEstimate builds a formula-based fallback Estimate using the most
// recent observed weight (or defaultWeightKG when there is none).
func (e *Engine) traditionalEstimate(p *Profile, weights []WeightObservation, method string, confidence float64, factor, rationale string) Estimate {
	currentWeight := defaultWeightKG
	if len(weights) > 0 {
		currentWeight = weights[len(weights)-1].WeightKG
	}
	return Estimate{
		EstimatedTDEE: math.Round(e.TraditionalTDEE(p, currentWeight)),
		Confidence:    confidence,
		Method:        method,
		Factors:       []string{factor},
		Rationale:     rationale,
	}
}

// intakeVariation returns the coefficient of variation (population stdev over
// mean) of logged calories. A non-positive mean counts as maximal
// instability (CV 1) rather than dividing by zero.
func intakeVariation(records []IntakeRecord, mean float64) float64 {
	if mean <= 0 || len(records) == 0 {
		return 1
	}
	var sumSq float64
	for _, r := range records {
		d := r.ConsumedCalories - mean
		sumSq += d * d
	}
	stdev := math.Sqrt(sumSq / float64(len(records)))
	return stdev / mean
}

// intakeStability maps the coefficient of variation to a [0,1] score.
func intakeStability(records []IntakeRecord, mean float64) float64 {
	return math.Max(0, 1-intakeVariation(records, mean))
}

// lastIntake returns at most n trailing records without copying.
func lastIntake(records []IntakeRecord, n int) []IntakeRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// lastWeights returns at most n trailing observations without copying.
func lastWeights(obs []WeightObservation, n int) []WeightObservation {
	if len(obs) <= n {
		return obs
	}
	return obs[len(obs)-n:]
}
