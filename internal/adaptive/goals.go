package adaptive

import (
	"context"
	"fmt"
	"math"
	"time"
)

// goalOffsets maps the user's stated goal to a daily caloric offset from
// TDEE. Unknown or missing goals get no offset (maintenance).
var goalOffsets = map[string]float64{
	"lose_weight": -500,
	"maintain":    0,
	"gain_weight": 300,
	"gain_muscle": 200,
}

// minCalorieFloor is the absolute lower bound on any calorie target.
const minCalorieFloor = 1200.0

// ValidGoal reports whether s is a recognised goal category.
func ValidGoal(s string) bool {
	_, ok := goalOffsets[s]
	return ok
}

// AdaptiveCalorieTarget converts an accepted TDEE into a daily calorie
// target for the user's goal, clamped to [max(1200, 0.7·TDEE), 1.3·TDEE].
// Clamping is silent; the result is rounded to the nearest calorie.
func (e *Engine) AdaptiveCalorieTarget(p *Profile, tdee float64) float64 {
	var offset float64
	if p.Goal != nil {
		offset = goalOffsets[*p.Goal] // unknown goal → 0
	}
	target := tdee + offset

	minCalories := math.Max(minCalorieFloor, tdee*0.7)
	maxCalories := tdee * 1.3
	target = math.Max(minCalories, math.Min(target, maxCalories))

	return math.Round(target)
}

// ShouldUpdateGoals decides whether a candidate estimate is worth persisting:
// confidence must clear the threshold, and — unless this is the first
// estimate ever — the TDEE must have moved more than MinRelativeChange
// relative to the stored value. Pure function; no side effects.
func (e *Engine) ShouldUpdateGoals(p *Profile, newTDEE, confidence float64) bool {
	if confidence < e.ConfidenceThreshold {
		return false
	}
	if p.EstimatedTDEE == nil || *p.EstimatedTDEE == 0 {
		return true
	}
	relChange := math.Abs(newTDEE-*p.EstimatedTDEE) / *p.EstimatedTDEE
	return relChange > e.MinRelativeChange
}

// UpdateUserGoals runs the update gate on est and, when it accepts, persists
// the new TDEE, confidence, and adaptive calorie target through store.
// Returns nil (and no error) when the gate rejects.
//
// The user-visible target calories are only overwritten when the user has no
// target yet or their current target sits within 50 kcal of the previous
// adaptive value — a manually diverged target is never silently replaced.
func (e *Engine) UpdateUserGoals(ctx context.Context, store GoalStore, p *Profile, est Estimate) (*GoalUpdate, error) {
	if !e.ShouldUpdateGoals(p, est.EstimatedTDEE, est.Confidence) {
		return nil, nil
	}

	target := e.AdaptiveCalorieTarget(p, est.EstimatedTDEE)

	var prevAdaptive float64
	if p.AdaptiveCalories != nil {
		prevAdaptive = *p.AdaptiveCalories
	}
	goals := PersistedGoals{
		EstimatedTDEE:    est.EstimatedTDEE,
		TDEEConfidence:   est.Confidence,
		AdaptiveCalories: target,
	}
	if p.TargetCalories == nil || *p.TargetCalories == 0 ||
		math.Abs(*p.TargetCalories-prevAdaptive) < 50 {
		goals.TargetCalories = &target
	}

	if err := store.SaveGoals(ctx, p.UserID, goals); err != nil {
		return nil, fmt.Errorf("save goals for user %d: %w", p.UserID, err)
	}

	return &GoalUpdate{
		NewTDEE:           est.EstimatedTDEE,
		NewTargetCalories: target,
		Confidence:        est.Confidence,
		Rationale:         est.Rationale,
		EffectiveDate:     time.Now().UTC().Truncate(24 * time.Hour),
	}, nil
}

// RefreshUserGoals is the full estimate-and-persist cycle: pull the recent
// history through the provider, compute an adaptive estimate, and push it
// through the update gate. Callers must serialize concurrent refreshes for
// the same user; different users need no coordination.
func (e *Engine) RefreshUserGoals(ctx context.Context, history HistoryProvider, store GoalStore, p *Profile) (*GoalUpdate, error) {
	intake, err := history.RecentIntake(ctx, p.UserID, e.AnalysisWindowDays)
	if err != nil {
		return nil, fmt.Errorf("load intake history for user %d: %w", p.UserID, err)
	}
	weights, err := history.RecentWeights(ctx, p.UserID, e.AnalysisWindowDays)
	if err != nil {
		return nil, fmt.Errorf("load weight history for user %d: %w", p.UserID, err)
	}

	est := e.AdaptiveTDEE(p, intake, weights)
	return e.UpdateUserGoals(ctx, store, p, est)
}
