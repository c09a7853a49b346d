package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/nutrition-go-api/internal/adaptive"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	FullName  string     `json:"full_name" db:"full_name"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user with body stats, the
// stated goal, and the fields the adaptive engine maintains. Nullable
// columns use pointers so pgx can scan NULLs and JSON omits them naturally.
type userProfile struct {
	UserID int `json:"user_id" db:"user_id"`

	// Body stats and goals — all nullable; zero-knowledge rows still work.
	Age           *int     `json:"age"            db:"age"`
	Sex           *string  `json:"sex"            db:"sex"`
	HeightCM      *float64 `json:"height_cm"      db:"height_cm"`
	ActivityLevel *string  `json:"activity_level" db:"activity_level"`
	Goal          *string  `json:"goal"           db:"goal"`
	Units         string   `json:"units"          db:"units"`

	// User-visible daily target. May be hand-set, in which case the
	// adaptive engine stops overwriting it.
	TargetCalories *float64 `json:"target_calories" db:"target_calories"`

	// Maintained by the adaptive engine; read-only through the API.
	EstimatedTDEE    *float64 `json:"estimated_tdee"    db:"estimated_tdee"`
	TDEEConfidence   float64  `json:"tdee_confidence"   db:"tdee_confidence"`
	AdaptiveCalories *float64 `json:"adaptive_calories" db:"adaptive_calories"`

	// Computed fields — populated server-side from the profile; not stored
	// in DB. db:"-" tells RowToStructByName to skip these during scanning.
	ComputedBMR             *int `json:"computed_bmr,omitempty"              db:"-"`
	ComputedTraditionalTDEE *int `json:"computed_traditional_tdee,omitempty" db:"-"`
}

// adaptiveProfile converts the DB row into the estimator's read-only
// snapshot type.
func (p *userProfile) adaptiveProfile() *adaptive.Profile {
	return &adaptive.Profile{
		UserID:           p.UserID,
		Age:              p.Age,
		Sex:              p.Sex,
		HeightCM:         p.HeightCM,
		ActivityLevel:    p.ActivityLevel,
		Goal:             p.Goal,
		EstimatedTDEE:    p.EstimatedTDEE,
		TDEEConfidence:   p.TDEEConfidence,
		TargetCalories:   p.TargetCalories,
		AdaptiveCalories: p.AdaptiveCalories,
	}
}

// weightEntry maps to weight_log. Weights are stored in kg; UNIQUE(user_id, date).
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	Source    *string    `json:"source" db:"source"`
	Notes     *string    `json:"notes" db:"notes"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// intakeEntry maps to daily_intake_log: one row per user per date with the
// day's total consumed calories. A zero-calorie row counts as "not logged"
// for the adaptive engine.
type intakeEntry struct {
	ID               int        `json:"id" db:"id"`
	UserID           int        `json:"user_id" db:"user_id"`
	Date             DateOnly   `json:"date" db:"date"`
	ConsumedCalories float64    `json:"consumed_calories" db:"consumed_calories"`
	MealCount        int        `json:"meal_count" db:"meal_count"`
	CreatedAt        *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at" db:"updated_at"`
}

// toObservations converts weight rows (already date-ascending) into
// estimator inputs.
func toObservations(entries []weightEntry) []adaptive.WeightObservation {
	obs := make([]adaptive.WeightObservation, len(entries))
	for i, e := range entries {
		obs[i] = adaptive.WeightObservation{Date: e.Date.Time, WeightKG: e.WeightKG}
	}
	return obs
}

// toIntakeRecords converts intake rows (already date-ascending) into
// estimator inputs.
func toIntakeRecords(entries []intakeEntry) []adaptive.IntakeRecord {
	records := make([]adaptive.IntakeRecord, len(entries))
	for i, e := range entries {
		records[i] = adaptive.IntakeRecord{Date: e.Date.Time, ConsumedCalories: e.ConsumedCalories}
	}
	return records
}

/* ─── Request / response types ───────────────────────────────────────── */

// patchProfileRequest is the request body for PATCH /api/profile. All fields
// are pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	Age            *int     `json:"age"`
	Sex            *string  `json:"sex"`
	HeightCM       *float64 `json:"height_cm"`
	ActivityLevel  *string  `json:"activity_level"`
	Goal           *string  `json:"goal"`
	Units          *string  `json:"units"`
	TargetCalories *float64 `json:"target_calories"`
}

// adaptiveEstimateResponse is the body for GET /api/adaptive/estimate: the
// adaptive estimate side by side with the formula baseline, plus how much
// history fed it.
type adaptiveEstimateResponse struct {
	Estimate        adaptive.Estimate `json:"estimate"`
	TraditionalTDEE int               `json:"traditional_tdee"`
	IntakeDays      int               `json:"intake_days"`
	WeightDays      int               `json:"weight_days"`
}

// goalUpdateResponse wraps an accepted GoalUpdate with a date-only effective date.
type goalUpdateResponse struct {
	NewTDEE           float64  `json:"new_tdee"`
	NewTargetCalories float64  `json:"new_target_calories"`
	Confidence        float64  `json:"confidence"`
	Rationale         string   `json:"rationale"`
	EffectiveDate     DateOnly `json:"effective_date"`
}

// progressSummary is the response for GET /api/progress/summary: period
// aggregates over intake and weight plus the fitted weekly trend.
type progressSummary struct {
	Start              string   `json:"start"`
	End                string   `json:"end"`
	DaysLogged         int      `json:"days_logged"`
	TotalDays          int      `json:"total_days"`
	LoggingConsistency float64  `json:"logging_consistency"`
	AvgCalories        float64  `json:"avg_calories"`
	WeightStart        *float64 `json:"weight_start"`
	WeightEnd          *float64 `json:"weight_end"`
	WeightChangeKG     *float64 `json:"weight_change_kg"`
	WeeklyTrendKG      float64  `json:"weekly_trend_kg"`
	TrendConfidence    float64  `json:"trend_confidence"`
}
