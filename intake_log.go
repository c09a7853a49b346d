package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/adaptive"
)

// getIntakeLog returns daily intake records for the authenticated user within
// [start, end]. GET /api/intake-log?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Returns an empty array (not null) if no records exist in the range.
func (h *Handler) getIntakeLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[intakeEntry](h.db, c,
		`SELECT * FROM daily_intake_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intake log")
		return
	}
	if entries == nil {
		entries = []intakeEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// upsertIntakeEntry creates or updates the intake record for the given date.
// POST /api/intake-log. Body: { "date": "YYYY-MM-DD", "consumed_calories": 2150, "meal_count"? }.
// At most one record per date (UNIQUE(user_id, date)) — posting the same
// date replaces the day's totals. Zero calories is accepted: it marks the
// day as present-but-unlogged, which the estimator skips when averaging.
func (h *Handler) upsertIntakeEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date             string  `json:"date"`
		ConsumedCalories float64 `json:"consumed_calories"`
		MealCount        *int    `json:"meal_count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		apiError(c, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := adaptive.ValidateIntakeRecord(adaptive.IntakeRecord{Date: date, ConsumedCalories: body.ConsumedCalories}); err != nil {
		apiError(c, http.StatusBadRequest, "consumed_calories must not be negative")
		return
	}
	mealCount := 0
	if body.MealCount != nil {
		if *body.MealCount < 0 {
			apiError(c, http.StatusBadRequest, "meal_count must not be negative")
			return
		}
		mealCount = *body.MealCount
	}

	entry, err := queryOne[intakeEntry](h.db, c,
		`INSERT INTO daily_intake_log (user_id, date, consumed_calories, meal_count)
		 VALUES (@userID, @date, @consumedCalories, @mealCount)
		 ON CONFLICT (user_id, date) DO UPDATE
		 SET consumed_calories = EXCLUDED.consumed_calories,
		     meal_count        = EXCLUDED.meal_count,
		     updated_at        = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":           userID,
			"date":             body.Date,
			"consumedCalories": body.ConsumedCalories,
			"mealCount":        mealCount,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert intake entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteIntakeEntry removes a daily intake record by ID.
// DELETE /api/intake-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteIntakeEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM daily_intake_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete intake entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "intake entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
