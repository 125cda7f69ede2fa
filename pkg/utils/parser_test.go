package utils

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp_Layouts(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339", "2024-05-06T10:30:00Z", time.Date(2024, 5, 6, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2024-05-06T10:30:00+07:00", time.Date(2024, 5, 6, 3, 30, 0, 0, time.UTC)},
		{"local iso", "2024-05-06T10:30:00", time.Date(2024, 5, 6, 10, 30, 0, 0, jakarta)},
		{"local iso micro", "2024-05-06T10:30:00.123456", time.Date(2024, 5, 6, 10, 30, 0, 123456000, jakarta)},
		{"local space", "2024-05-06 10:30:00", time.Date(2024, 5, 6, 10, 30, 0, 0, jakarta)},
		{"date only", "2024-05-06", time.Date(2024, 5, 6, 0, 0, 0, 0, jakarta)},
		{"http date", "Mon, 06 May 2024 00:00:00 GMT", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value, jakarta)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseTimestamp_Unparseable(t *testing.T) {
	for _, value := range []string{"", "   ", "not a date", "2024-13-45", "06/05/2024"} {
		if _, err := ParseTimestamp(value, time.UTC); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Expected ErrUnparseable for %q, got %v", value, err)
		}
	}
}

func TestParseDay(t *testing.T) {
	got, ok := ParseDay(" 2024-02-29 ", time.UTC)
	if !ok {
		t.Fatal("Expected leap day to parse")
	}
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if _, ok := ParseDay("2024-02-30", time.UTC); ok {
		t.Error("Expected invalid day to fail")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		value string
		want  float64
		ok    bool
	}{
		{"2024", 2024, true},
		{" 12.5 ", 12.5, true},
		{"", 0, true},
		{"abc", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.value)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v; expected %v, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(2024); got != "2024" {
		t.Errorf("Expected 2024, got %s", got)
	}
	if got := FormatNumber(1.5); got != "1.5" {
		t.Errorf("Expected 1.5, got %s", got)
	}
}
