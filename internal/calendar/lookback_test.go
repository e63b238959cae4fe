package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestLookbackResolve_Trailing(t *testing.T) {
	asOf := time.Date(2025, 9, 19, 18, 0, 0, 0, time.UTC) // Fri
	r, err := Trailing(5).Resolve(asOf)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := r.Start.Format(time.DateOnly); got != "2025-09-15" {
		t.Fatalf("start: got %s", got)
	}
	if got := r.Stop.Format(time.DateOnly); got != "2025-09-19" {
		t.Fatalf("stop: got %s", got)
	}
}

func TestLookbackResolve_Explicit(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	stop := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r, err := Between(start, stop).Resolve(asOf)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !r.Start.Equal(start) || !r.Stop.Equal(stop) {
		t.Fatalf("unexpected range: %+v", r)
	}

	// zero stop falls back to asOf
	r, err = Between(start, time.Time{}).Resolve(asOf)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !r.Stop.Equal(asOf) {
		t.Fatalf("stop should default to asOf, got %s", r.Stop)
	}

	// single-day range is valid
	if _, err := Between(start, start).Resolve(asOf); err != nil {
		t.Fatalf("start == stop should be valid: %v", err)
	}
}

func TestLookbackResolve_Invalid(t *testing.T) {
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		lb   Lookback
	}{
		{"zero trailing", Trailing(0)},
		{"negative trailing", Trailing(-3)},
		{"stop before start", Between(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.lb.Resolve(asOf)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}
