package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lg/nutrition-go-api/internal/adaptive"
)

// setupTestRouter creates a Gin engine with all routes registered behind a
// stub auth middleware that sets a fixed user_id. No DB — these tests only
// exercise the request-validation paths, which return before any query runs.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handler{engine: adaptive.NewEngine()}
	router := gin.New()

	stubAuth := func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}
	api := router.Group("/api", stubAuth)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.upsertWeightEntry)
	api.PUT("/weight-log/:id", h.updateWeightEntry)
	api.GET("/intake-log", h.getIntakeLog)
	api.POST("/intake-log", h.upsertIntakeEntry)
	api.GET("/progress/summary", h.getProgressSummary)
	return router
}

// doRequest sends a request with an optional JSON body and returns the recorder.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// errorMessage extracts the "error" field from an apiError response body.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return resp["error"]
}

/* ─── Range-query validation ─────────────────────────────────────────── */

func TestGetWeightLog_MissingParams(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name string
		path string
	}{
		{"no params", "/api/weight-log"},
		{"missing end", "/api/weight-log?start=2026-01-01"},
		{"missing start", "/api/weight-log?end=2026-01-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "GET", tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); msg != "start and end query params are required" {
				t.Errorf("unexpected error message: %q", msg)
			}
		})
	}
}

func TestGetWeightLog_InvalidDates(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name string
		path string
	}{
		{"malformed start", "/api/weight-log?start=Jan-1&end=2026-01-31"},
		{"malformed end", "/api/weight-log?start=2026-01-01&end=31/01/2026"},
		{"start after end", "/api/weight-log?start=2026-02-01&end=2026-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "GET", tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetIntakeLog_InvalidRange(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(router, "GET", "/api/intake-log?start=2026-01-15&end=2026-01-01", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if msg := errorMessage(t, w); msg != "start must not be after end" {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestGetProgressSummary_MissingParams(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(router, "GET", "/api/progress/summary", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

/* ─── Write-path validation ──────────────────────────────────────────── */

func TestUpsertWeightEntry_Validation(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed JSON", `{"date":`, "invalid request body"},
		{"missing date", `{"weight_kg": 80}`, "date is required"},
		{"bad date format", `{"date":"15/01/2026","weight_kg":80}`, "invalid date, expected YYYY-MM-DD"},
		{"zero weight", `{"date":"2026-01-15","weight_kg":0}`, "weight_kg must be between 0 and 500"},
		{"negative weight", `{"date":"2026-01-15","weight_kg":-5}`, "weight_kg must be between 0 and 500"},
		{"absurd weight", `{"date":"2026-01-15","weight_kg":620}`, "weight_kg must be between 0 and 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/weight-log", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); msg != tc.wantMsg {
				t.Errorf("expected error %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestUpdateWeightEntry_Validation(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"bad date", `{"date":"not-a-date"}`},
		{"zero weight", `{"weight_kg":0}`},
		{"over max weight", `{"weight_kg":501}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "PUT", "/api/weight-log/1", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUpsertIntakeEntry_Validation(t *testing.T) {
	router := setupTestRouter()

	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing date", `{"consumed_calories": 2000}`, "date is required"},
		{"negative calories", `{"date":"2026-01-15","consumed_calories":-100}`, "consumed_calories must not be negative"},
		{"negative meal count", `{"date":"2026-01-15","consumed_calories":2000,"meal_count":-1}`, "meal_count must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/intake-log", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); msg != tc.wantMsg {
				t.Errorf("expected error %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

/* ─── Auth middleware ────────────────────────────────────────────────── */

// The missing/malformed-header paths reject before the token lookup, so they
// can run without a DB.
func TestAuthMiddleware_RejectsWithoutBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.GET("/api/profile", h.authMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token", "sometoken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.POST("/api/login", h.login)

	w := doRequest(router, "POST", "/api/login", `{"email":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
