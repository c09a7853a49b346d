package adaptive

import (
	"math"
	"testing"
)

// makeProfile constructs a fully-populated Profile for estimator tests.
// Individual tests nil out specific fields to exercise fallback paths.
func makeProfile(sex string, age int, heightCM float64, activity, goal string) *Profile {
	return &Profile{
		UserID:        1,
		Age:           &age,
		Sex:           &sex,
		HeightCM:      &heightCM,
		ActivityLevel: &activity,
		Goal:          &goal,
	}
}

/* ─── BMR accuracy ───────────────────────────────────────────────────── */

// TestBMR_Male verifies the male Mifflin-St Jeor formula with known inputs.
//
// Inputs: male, 30 years, 175cm, 80kg.
// Expected: 10*80 + 6.25*175 - 5*30 + 5 = 800 + 1093.75 - 150 + 5 = 1748.75
func TestBMR_Male(t *testing.T) {
	e := NewEngine()
	p := makeProfile("male", 30, 175, "moderate", "maintain")
	bmr := e.BMR(p, 80)
	if math.Abs(bmr-1748.75) > 0.01 {
		t.Errorf("male BMR = %.2f, want 1748.75", bmr)
	}
}

// TestBMR_Female verifies the female formula: same as male but -161 instead
// of +5, so 1748.75 - 166 = 1582.75.
func TestBMR_Female(t *testing.T) {
	e := NewEngine()
	p := makeProfile("female", 30, 175, "moderate", "maintain")
	bmr := e.BMR(p, 80)
	if math.Abs(bmr-1582.75) > 0.01 {
		t.Errorf("female BMR = %.2f, want 1582.75", bmr)
	}
}

// TestBMR_OtherUsesFemaleFormula verifies that sex "other" takes the -161
// constant, matching the female branch.
func TestBMR_OtherUsesFemaleFormula(t *testing.T) {
	e := NewEngine()
	other := makeProfile("other", 30, 175, "moderate", "maintain")
	female := makeProfile("female", 30, 175, "moderate", "maintain")
	if e.BMR(other, 80) != e.BMR(female, 80) {
		t.Errorf("BMR for sex=other (%.2f) should match female (%.2f)", e.BMR(other, 80), e.BMR(female, 80))
	}
}

/* ─── Missing-field fallback ─────────────────────────────────────────── */

// TestBMR_MissingFieldsFallBackTo1800 verifies the documented 1800 kcal
// default when age, height, or sex is absent — a fallback, not an error.
func TestBMR_MissingFieldsFallBackTo1800(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *Profile)
	}{
		{"nil Age", func(p *Profile) { p.Age = nil }},
		{"nil HeightCM", func(p *Profile) { p.HeightCM = nil }},
		{"nil Sex", func(p *Profile) { p.Sex = nil }},
	}
	e := NewEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makeProfile("male", 30, 175, "moderate", "maintain")
			tc.mutFn(p)
			if bmr := e.BMR(p, 80); bmr != 1800 {
				t.Errorf("BMR with %s = %.2f, want 1800", tc.name, bmr)
			}
		})
	}
}

/* ─── Traditional TDEE ───────────────────────────────────────────────── */

// TestTraditionalTDEE_KnownValue: BMR 1748.75 * moderate 1.55 = 2710.5625.
func TestTraditionalTDEE_KnownValue(t *testing.T) {
	e := NewEngine()
	p := makeProfile("male", 30, 175, "moderate", "maintain")
	tdee := e.TraditionalTDEE(p, 80)
	if math.Abs(tdee-2710.5625) > 0.01 {
		t.Errorf("traditional TDEE = %.2f, want 2710.5625", tdee)
	}
}

// TestTraditionalTDEE_UnknownActivityDefaultsToModerate verifies that a bogus
// or missing activity level uses the moderate (1.55) multiplier rather than
// failing.
func TestTraditionalTDEE_UnknownActivityDefaultsToModerate(t *testing.T) {
	e := NewEngine()
	moderate := makeProfile("male", 30, 175, "moderate", "maintain")
	want := e.TraditionalTDEE(moderate, 80)

	bogus := makeProfile("male", 30, 175, "couch_potato", "maintain")
	if got := e.TraditionalTDEE(bogus, 80); got != want {
		t.Errorf("unknown activity TDEE = %.2f, want moderate value %.2f", got, want)
	}

	missing := makeProfile("male", 30, 175, "moderate", "maintain")
	missing.ActivityLevel = nil
	if got := e.TraditionalTDEE(missing, 80); got != want {
		t.Errorf("missing activity TDEE = %.2f, want moderate value %.2f", got, want)
	}
}

// TestTraditionalTDEE_Multipliers checks the full activity table against the
// shared BMR base.
func TestTraditionalTDEE_Multipliers(t *testing.T) {
	cases := []struct {
		level string
		mult  float64
	}{
		{"sedentary", 1.2},
		{"light", 1.375},
		{"moderate", 1.55},
		{"active", 1.725},
		{"very_active", 1.9},
	}
	e := NewEngine()
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			p := makeProfile("male", 30, 175, tc.level, "maintain")
			want := 1748.75 * tc.mult
			if got := e.TraditionalTDEE(p, 80); math.Abs(got-want) > 0.01 {
				t.Errorf("TDEE(%s) = %.2f, want %.2f", tc.level, got, want)
			}
		})
	}
}

// TestTraditionalTDEE_Monotonic verifies the formula is strictly increasing
// in weight and height and strictly decreasing in age, holding the other
// parameters fixed.
func TestTraditionalTDEE_Monotonic(t *testing.T) {
	e := NewEngine()

	base := makeProfile("male", 30, 175, "moderate", "maintain")
	if e.TraditionalTDEE(base, 81) <= e.TraditionalTDEE(base, 80) {
		t.Error("TDEE should strictly increase with weight")
	}

	taller := makeProfile("male", 30, 180, "moderate", "maintain")
	if e.TraditionalTDEE(taller, 80) <= e.TraditionalTDEE(base, 80) {
		t.Error("TDEE should strictly increase with height")
	}

	older := makeProfile("male", 40, 175, "moderate", "maintain")
	if e.TraditionalTDEE(older, 80) >= e.TraditionalTDEE(base, 80) {
		t.Error("TDEE should strictly decrease with age")
	}
}
