package util

import (
	"testing"
	"time"
)

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2025, 3, 14, 15, 9, 26, 535, time.UTC))
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly = %v, want %v", got, want)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28}, // non-leap
		{2024, time.February, 29}, // leap
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		got := LastDayOfMonth(tt.year, tt.month)
		if got != tt.want {
			t.Errorf("LastDayOfMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestClampedDate(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  time.Time
	}{
		{
			name: "day exists in month",
			year: 2025, month: time.March, day: 15,
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day 31 clamps to Feb 28",
			year: 2025, month: time.February, day: 31,
			want: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day 31 clamps to Feb 29 in leap year",
			year: 2024, month: time.February, day: 31,
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month overflow normalizes across year boundary",
			year: 2025, month: time.December + 1, day: 31,
			want: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "overflow into short month still clamps",
			year: 2025, month: time.Month(14), day: 30,
			want: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampedDate(tt.year, tt.month, tt.day)
			if !got.Equal(tt.want) {
				t.Errorf("ClampedDate(%d, %v, %d) = %v, want %v", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}
