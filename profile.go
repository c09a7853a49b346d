package main

import (
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/adaptive"
)

// getProfile returns the profile for the authenticated user. The computed
// BMR and traditional TDEE are populated when a current weight is known.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	h.populateComputedTDEE(c, &p)

	c.JSON(http.StatusOK, p)
}

// populateComputedTDEE fills the computed-only fields on p from the latest
// weight observation. No-ops if the user has never logged a weight — the
// formula needs a current weight to anchor on.
func (h *Handler) populateComputedTDEE(c *gin.Context, p *userProfile) {
	var weightKG float64
	err := h.db.QueryRow(c,
		"SELECT weight_kg FROM weight_log WHERE user_id = $1 ORDER BY date DESC LIMIT 1",
		p.UserID).Scan(&weightKG)
	if err != nil {
		return
	}

	bmr := int(math.Round(h.engine.BMR(p.adaptiveProfile(), weightKG)))
	tdee := int(math.Round(h.engine.TraditionalTDEE(p.adaptiveProfile(), weightKG)))
	p.ComputedBMR = &bmr
	p.ComputedTraditionalTDEE = &tdee
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero — only non-nil fields get updated. Categorical
// fields are validated against the estimator's closed sets; an unknown value
// would silently degrade every future TDEE computation with no visible error.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Sex != nil && *body.Sex != "male" && *body.Sex != "female" && *body.Sex != "other" {
		apiError(c, http.StatusBadRequest, "sex must be one of: male, female, other")
		return
	}
	if body.ActivityLevel != nil && !adaptive.ValidActivityLevel(*body.ActivityLevel) {
		apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
		return
	}
	if body.Goal != nil && !adaptive.ValidGoal(*body.Goal) {
		apiError(c, http.StatusBadRequest, "goal must be one of: lose_weight, maintain, gain_weight, gain_muscle")
		return
	}
	if body.Age != nil && (*body.Age < 0 || *body.Age > 130) {
		apiError(c, http.StatusBadRequest, "age must be between 0 and 130")
		return
	}
	if body.HeightCM != nil && (*body.HeightCM <= 0 || *body.HeightCM > 300) {
		apiError(c, http.StatusBadRequest, "height_cm must be between 0 and 300")
		return
	}
	if body.TargetCalories != nil && *body.TargetCalories < 0 {
		apiError(c, http.StatusBadRequest, "target_calories must not be negative")
		return
	}
	if body.Units != nil && *body.Units != "metric" && *body.Units != "imperial" {
		apiError(c, http.StatusBadRequest, "units must be metric or imperial")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *body.Age
	}
	if body.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *body.Sex
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *body.Goal
	}
	if body.Units != nil {
		setClauses = append(setClauses, "units = @units")
		args["units"] = *body.Units
	}
	if body.TargetCalories != nil {
		setClauses = append(setClauses, "target_calories = @targetCalories")
		args["targetCalories"] = *body.TargetCalories
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	sql := "UPDATE user_profiles SET " + strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"
	p, err := queryOne[userProfile](h.db, c, sql, args)
	if err != nil {
		log.Printf("[profile] update failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.populateComputedTDEE(c, &p)

	c.JSON(http.StatusOK, p)
}
