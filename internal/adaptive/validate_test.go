package adaptive

import (
	"errors"
	"testing"
	"time"
)

var testDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// TestValidateWeightObservation table-tests the input contract. All
// violations must be ErrInvalidInput so the boundary can map them to 400s.
func TestValidateWeightObservation(t *testing.T) {
	cases := []struct {
		name    string
		obs     WeightObservation
		wantErr bool
	}{
		{"valid", WeightObservation{Date: testDate, WeightKG: 80.5}, false},
		{"zero date", WeightObservation{WeightKG: 80.5}, true},
		{"zero weight", WeightObservation{Date: testDate, WeightKG: 0}, true},
		{"negative weight", WeightObservation{Date: testDate, WeightKG: -3}, true},
		{"implausible weight", WeightObservation{Date: testDate, WeightKG: 800}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWeightObservation(tc.obs)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		})
	}
}

// TestValidateIntakeRecord: negative calories are a contract violation, but
// zero is legal — it means "not logged".
func TestValidateIntakeRecord(t *testing.T) {
	cases := []struct {
		name    string
		rec     IntakeRecord
		wantErr bool
	}{
		{"valid", IntakeRecord{Date: testDate, ConsumedCalories: 2200}, false},
		{"zero calories is unlogged, not invalid", IntakeRecord{Date: testDate, ConsumedCalories: 0}, false},
		{"zero date", IntakeRecord{ConsumedCalories: 2200}, true},
		{"negative calories", IntakeRecord{Date: testDate, ConsumedCalories: -100}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIntakeRecord(tc.rec)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		})
	}
}
