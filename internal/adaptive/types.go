package adaptive

import (
	"context"
	"time"
)

/* ─── Estimation methods and factor tags ─────────────────────────────── */

// Method tags attached to every Estimate. "adaptive" means the estimate was
// back-solved from observed intake and weight change; the traditional tags
// mean the engine fell back to the population formula.
const (
	MethodTraditional         = "traditional"
	MethodTraditionalFallback = "traditional_fallback"
	MethodAdaptive            = "adaptive"
)

// Qualitative factor tags. These surface in API responses so clients can
// explain to the user why an estimate looks the way it does.
const (
	FactorInsufficientData      = "insufficient_data"
	FactorInsufficientValidDays = "insufficient_valid_days"
	FactorStrongWeightTrend     = "strong_weight_trend"
	FactorConsistentLogging     = "consistent_logging"
	FactorStableWeight          = "stable_weight"
	FactorConsistentIntake      = "consistent_intake"
	FactorSmoothedChange        = "smoothed_change"
)

/* ─── Input types ────────────────────────────────────────────────────── */

// Profile is a read-only snapshot of the user's body stats and goals.
// Pointer fields are nullable — a user who skipped onboarding still gets
// estimates via the documented fallbacks.
type Profile struct {
	UserID         int
	Age            *int
	Sex            *string // "male", "female", "other"
	HeightCM       *float64
	ActivityLevel  *string // see activityMultipliers for valid values
	Goal           *string // see goalOffsets for valid values
	EstimatedTDEE  *float64
	TDEEConfidence float64
	// TargetCalories is the user-visible daily target; AdaptiveCalories is
	// the last target the engine itself wrote. The gap between them tells
	// the engine whether the user has manually diverged.
	TargetCalories   *float64
	AdaptiveCalories *float64
}

// WeightObservation is one scale reading. Sequences handed to the engine are
// user-scoped and ordered by date ascending; gaps (missed days) are allowed.
type WeightObservation struct {
	Date     time.Time
	WeightKG float64
}

// IntakeRecord is one day's total logged calories. ConsumedCalories == 0
// means "not logged" and is excluded from averaging.
type IntakeRecord struct {
	Date             time.Time
	ConsumedCalories float64
}

/* ─── Output types ───────────────────────────────────────────────────── */

// Estimate is the result of one TDEE estimation run. Ephemeral — nothing is
// persisted unless the caller pushes it through UpdateUserGoals.
type Estimate struct {
	EstimatedTDEE float64  `json:"estimated_tdee"`
	Confidence    float64  `json:"confidence"`
	Method        string   `json:"method"`
	Factors       []string `json:"factors"`
	Rationale     string   `json:"rationale"`
}

// GoalUpdate describes an accepted goal change, returned after persistence.
type GoalUpdate struct {
	NewTDEE           float64   `json:"new_tdee"`
	NewTargetCalories float64   `json:"new_target_calories"`
	Confidence        float64   `json:"confidence"`
	Rationale         string    `json:"rationale"`
	EffectiveDate     time.Time `json:"effective_date"`
}

// PersistedGoals is the write set handed to a GoalStore when the update gate
// accepts. TargetCalories is nil when the user-visible target must be left
// alone (they have manually diverged from the adaptive value).
type PersistedGoals struct {
	EstimatedTDEE    float64
	TDEEConfidence   float64
	AdaptiveCalories float64
	TargetCalories   *float64
}

/* ─── Ports ──────────────────────────────────────────────────────────── */

// HistoryProvider supplies the engine with a user's recent logs, newest-last.
// Implementations live outside this package (the API layer backs it with
// Postgres); the engine never touches storage directly.
type HistoryProvider interface {
	RecentIntake(ctx context.Context, userID, limit int) ([]IntakeRecord, error)
	RecentWeights(ctx context.Context, userID, limit int) ([]WeightObservation, error)
}

// GoalStore persists an accepted goal update. This single write is the only
// externally visible side effect of the whole subsystem.
type GoalStore interface {
	SaveGoals(ctx context.Context, userID int, goals PersistedGoals) error
}
