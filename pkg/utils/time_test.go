package utils

import (
	"testing"
	"time"
)

func TestGetDayStartFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "middle of day",
			input:    time.Date(2024, 1, 15, 14, 30, 45, 123456789, time.UTC),
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "start of day",
			input:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "leap year",
			input:    time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetDayStartFrom(tt.input)
			if !result.Equal(tt.expected) {
				t.Errorf("GetDayStartFrom(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetWeekStartFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "wednesday",
			input:    time.Date(2024, 1, 17, 14, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monday itself",
			input:    time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "sunday belongs to previous monday",
			input:    time.Date(2024, 1, 21, 23, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "week spanning month boundary",
			input:    time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetWeekStartFrom(tt.input)
			if !result.Equal(tt.expected) {
				t.Errorf("GetWeekStartFrom(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetMonthStartFrom(t *testing.T) {
	input := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	expected := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	result := GetMonthStartFrom(input)
	if !result.Equal(expected) {
		t.Errorf("GetMonthStartFrom(%v) = %v, want %v", input, result, expected)
	}
}

func TestTimeRangeContains(t *testing.T) {
	tr := TimeRange{
		Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		input    time.Time
		expected bool
	}{
		{"inside", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), true},
		{"at start", tr.Start, true},
		{"at end", tr.End, true},
		{"before", time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC), false},
		{"after", time.Date(2024, 1, 16, 0, 0, 1, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Contains(tt.input); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetPeriodRange(t *testing.T) {
	tests := []struct {
		name   string
		period PeriodType
	}{
		{"day", PeriodDay},
		{"week", PeriodWeek},
		{"month", PeriodMonth},
		{"all", PeriodAll},
		{"unknown falls back to day", PeriodType("quarter")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := GetPeriodRange(tt.period)
			now := time.Now().UTC()

			if tr.Start.After(now) {
				t.Errorf("Start %v is in the future", tr.Start)
			}
			if tr.End.Before(tr.Start) {
				t.Errorf("End %v before Start %v", tr.End, tr.Start)
			}
			if !tr.Contains(tr.End) {
				t.Error("range must contain its own end")
			}
		})
	}

	if !GetPeriodRange(PeriodAll).Start.IsZero() {
		t.Error("PeriodAll must start at zero time")
	}
}

func TestIsValidPeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"day", true},
		{"week", true},
		{"month", true},
		{"all", true},
		{"year", false},
		{"", false},
		{"DAY", false},
	}

	for _, tt := range tests {
		if got := IsValidPeriod(tt.input); got != tt.expected {
			t.Errorf("IsValidPeriod(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestGetLastNDays(t *testing.T) {
	tr := GetLastNDays(7)

	expected := 7 * 24 * time.Hour
	if diff := tr.Duration() - expected; diff < -time.Minute || diff > time.Minute {
		t.Errorf("Duration() = %v, want ~%v", tr.Duration(), expected)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"seconds only", 45 * time.Second, "45s"},
		{"minutes and seconds", 5*time.Minute + 30*time.Second, "5m30s"},
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h15m0s"},
		{"whole hours", 3 * time.Hour, "3h0m0s"},
		{"zero", 0, "0s"},
		{"negative normalized", -90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.input); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
