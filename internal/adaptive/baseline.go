package adaptive

// activityMultipliers maps activity level strings to their TDEE multiplier.
// Single source of truth for valid activity levels — also used for input
// validation in the profile PATCH handler.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// BMR computes basal metabolic rate via Mifflin-St Jeor. Falls back to a
// fixed 1800 kcal/day when age, height, or sex is missing — a documented
// default, not an error.
func (e *Engine) BMR(p *Profile, weightKG float64) float64 {
	if p.Age == nil || p.HeightCM == nil || p.Sex == nil {
		return defaultBMR
	}
	bmr := 10*weightKG + 6.25**p.HeightCM - 5*float64(*p.Age)
	if *p.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr
}

// TraditionalTDEE is the non-adaptive path: BMR times the activity
// multiplier. An unknown or missing activity level defaults to moderate.
func (e *Engine) TraditionalTDEE(p *Profile, weightKG float64) float64 {
	level := "moderate"
	if p.ActivityLevel != nil && *p.ActivityLevel != "" {
		level = *p.ActivityLevel
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		mult = activityMultipliers["moderate"]
	}
	return e.BMR(p, weightKG) * mult
}

// ValidActivityLevel reports whether s is a recognised activity level.
func ValidActivityLevel(s string) bool {
	_, ok := activityMultipliers[s]
	return ok
}
