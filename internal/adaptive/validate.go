package adaptive

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks an input contract violation (negative weight,
// negative calories, missing date). Check with errors.Is. The estimator
// itself assumes validated input — these checks belong at the boundary,
// before records are stored.
var ErrInvalidInput = errors.New("invalid input")

// maxWeightKG is a sanity ceiling on scale readings.
const maxWeightKG = 500.0

// ValidateWeightObservation rejects observations that violate the input
// contract: zero date, non-positive or implausibly large weight.
func ValidateWeightObservation(o WeightObservation) error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: weight observation has no date", ErrInvalidInput)
	}
	if o.WeightKG <= 0 || o.WeightKG > maxWeightKG {
		return fmt.Errorf("%w: weight %.1f kg out of range (0, %.0f]", ErrInvalidInput, o.WeightKG, maxWeightKG)
	}
	return nil
}

// ValidateIntakeRecord rejects records with no date or negative calories.
// Zero calories is legal — it means "not logged" and is skipped by the
// averaging, not rejected.
func ValidateIntakeRecord(r IntakeRecord) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: intake record has no date", ErrInvalidInput)
	}
	if r.ConsumedCalories < 0 {
		return fmt.Errorf("%w: consumed calories %.0f is negative", ErrInvalidInput, r.ConsumedCalories)
	}
	return nil
}
