package store

import (
	"testing"
	"time"

	"github.com/clinicamia/hcereport/internal/hce"
)

func TestNormalizeRangeWidensToFullDays(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	r := NormalizeRange(&hce.DateRange{
		From: time.Date(2024, 3, 10, 14, 22, 5, 0, loc),
		To:   time.Date(2024, 3, 20, 8, 1, 0, 0, loc),
	})

	wantFrom := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	if !r.From.Equal(wantFrom) {
		t.Fatalf("From = %v, want %v", r.From, wantFrom)
	}
	wantTo := time.Date(2024, 3, 20, 23, 59, 59, int(999*time.Millisecond), loc)
	if !r.To.Equal(wantTo) {
		t.Fatalf("To = %v, want %v", r.To, wantTo)
	}

	// Records at the day edges fall inside the window.
	edge := time.Date(2024, 3, 20, 23, 59, 59, 0, loc)
	if edge.After(r.To) {
		t.Fatal("end-of-day record should be inside the window")
	}
	before := time.Date(2024, 3, 9, 23, 59, 59, 0, loc)
	if !before.Before(r.From) {
		t.Fatal("record on the previous day should be outside the window")
	}
}

func TestNormalizeRangeNil(t *testing.T) {
	if NormalizeRange(nil) != nil {
		t.Fatal("nil range should stay nil")
	}
}
