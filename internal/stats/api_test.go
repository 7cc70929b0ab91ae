package stats

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseAnalyticsFilterDateRange(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		// approximate lower bound on how far back From reaches
		minBack time.Duration
		maxBack time.Duration
	}{
		{name: "last week", query: "date_range=last_week", minBack: 6 * 24 * time.Hour, maxBack: 8 * 24 * time.Hour},
		{name: "last month", query: "date_range=last_month", minBack: 27 * 24 * time.Hour, maxBack: 32 * 24 * time.Hour},
		{name: "last year", query: "date_range=last_year", minBack: 364 * 24 * time.Hour, maxBack: 367 * 24 * time.Hour},
		{name: "unknown range", query: "date_range=yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/municipal?"+tt.query, nil)
			filter, err := parseAnalyticsFilter(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.From == nil {
				t.Fatal("expected From to be set")
			}
			back := time.Since(*filter.From)
			if back < tt.minBack || back > tt.maxBack {
				t.Errorf("From reaches back %v, want between %v and %v", back, tt.minBack, tt.maxBack)
			}
		})
	}
}

func TestParseAnalyticsFilterAllTime(t *testing.T) {
	r := httptest.NewRequest("GET", "/municipal?date_range=all_time", nil)
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.From != nil {
		t.Error("all_time must not constrain the from date")
	}
}

func TestParseAnalyticsFilterExplicitDatesOverrideRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/municipal?date_range=last_week&from=2026-01-01", nil)
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if filter.From == nil || !filter.From.Equal(want) {
		t.Errorf("From = %v, want %v", filter.From, want)
	}
}
