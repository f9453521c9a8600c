package jobs

import (
	"testing"
	"time"
)

func TestFormatPostedAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"one day", now.AddDate(0, 0, -1).Format(time.RFC3339), "1 day ago"},
		{"four days", now.AddDate(0, 0, -4).Format(time.RFC3339), "4 days ago"},
		{"one week", now.AddDate(0, 0, -8).Format(time.RFC3339), "1 week ago"},
		{"three weeks", now.AddDate(0, 0, -21).Format(time.RFC3339), "3 weeks ago"},
		{"forty days", now.AddDate(0, 0, -40).Format(time.RFC3339), "1 months ago"},
		{"three months", now.AddDate(0, 0, -95).Format(time.RFC3339), "3 months ago"},
		{"few hours", now.Add(-5 * time.Hour).Format(time.RFC3339), "Today"},
		{"date only", "2025-06-11", "4 days ago"},
		{"unparseable", "last Tuesday", "Recently"},
		{"empty", "", "Recently"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatPostedAt(tc.value, now); got != tc.want {
				t.Fatalf("FormatPostedAt(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}
