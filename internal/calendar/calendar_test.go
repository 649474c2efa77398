package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestDateParts(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    [3]int
		wantErr bool
	}{
		{"stored format", "01/03/2024", [3]int{1, 3, 2024}, false},
		{"single digits", "1/3/2024", [3]int{1, 3, 2024}, false},
		{"two parts", "01/03", [3]int{}, true},
		{"four parts", "01/03/2024/1", [3]int{}, true},
		{"iso input", "2024-03-01", [3]int{}, true},
		{"letters", "aa/03/2024", [3]int{}, true},
		{"month out of range", "01/13/2024", [3]int{}, true},
		{"empty", "", [3]int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, m, y, err := DateParts(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DateParts(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrMalformedDate) {
					t.Errorf("error %v does not wrap ErrMalformedDate", err)
				}
				return
			}
			if got := [3]int{d, m, y}; got != tt.want {
				t.Errorf("DateParts(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDate_RejectsImpossibleDay(t *testing.T) {
	if _, err := ParseDate("31/02/2024", time.UTC); err == nil {
		t.Fatal("expected error for 31 February")
	}
}

func TestParseInstant_OrdersSameDay(t *testing.T) {
	morning, err := ParseInstant("05/06/2024", "09:15:00", time.UTC)
	if err != nil {
		t.Fatalf("ParseInstant morning: %v", err)
	}
	evening, err := ParseInstant("05/06/2024", "21:00", time.UTC)
	if err != nil {
		t.Fatalf("ParseInstant evening: %v", err)
	}
	if !evening.After(morning) {
		t.Errorf("evening %v should be after morning %v", evening, morning)
	}
	if evening.Hour() != 21 {
		t.Errorf("hour = %d, want 21", evening.Hour())
	}
}

func TestParseInstant_BadClock(t *testing.T) {
	for _, clock := range []string{"", "25:00:00", "12", "12:61:00", "ab:cd"} {
		if _, err := ParseInstant("05/06/2024", clock, time.UTC); !errors.Is(err, ErrMalformedTime) {
			t.Errorf("ParseInstant clock %q error = %v, want ErrMalformedTime", clock, err)
		}
	}
}

func TestInputToStored(t *testing.T) {
	got, err := InputToStored("2024-03-01")
	if err != nil {
		t.Fatalf("InputToStored: %v", err)
	}
	if got != "01/03/2024" {
		t.Errorf("InputToStored = %q, want %q", got, "01/03/2024")
	}

	if _, err := InputToStored("01/03/2024"); err == nil {
		t.Error("expected error for stored format passed as input")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	now := time.Date(2026, time.October, 19, 8, 5, 9, 0, loc)

	date := FormatDate(now)
	clock := FormatTime(now)
	if date != "19/10/2026" || clock != "08:05:09" {
		t.Fatalf("format = %q %q", date, clock)
	}

	back, err := ParseInstant(date, clock, loc)
	if err != nil {
		t.Fatalf("ParseInstant: %v", err)
	}
	if !back.Equal(now) {
		t.Errorf("round trip = %v, want %v", back, now)
	}
}
