package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-05")
	if err != nil || d != NewDate(2026, 1, 5) {
		t.Fatalf("unexpected parse: %v (err=%v)", d, err)
	}
	d, err = ParseDate("2026-01-05T23:30:00+02:00")
	if err != nil || d != NewDate(2026, 1, 5) {
		t.Fatalf("timestamp should reduce to its own calendar day, got %v (err=%v)", d, err)
	}
	for _, bad := range []string{"", "2026-13-01", "05/01/2026", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	late := time.Date(2026, 3, 1, 1, 0, 0, 0, loc) // still Feb 28 in UTC
	if got := DateOf(late); got != NewDate(2026, 3, 1) {
		t.Fatalf("got %v", got)
	}
}

func TestDaysUntil(t *testing.T) {
	from := NewDate(2025, 12, 30)
	cases := []struct {
		to   Date
		want int
	}{
		{NewDate(2025, 12, 30), 0},
		{NewDate(2025, 12, 29), -1},
		{NewDate(2026, 1, 2), 3},
		{NewDate(2026, 3, 30), 90},
	}
	for _, tc := range cases {
		if got := from.DaysUntil(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %d, want %d", from, tc.to, got, tc.want)
		}
	}
}

func TestAddMonthsClampsDay(t *testing.T) {
	cases := []struct {
		from Date
		n    int
		want Date
	}{
		{NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)},
		{NewDate(2025, 1, 31), 1, NewDate(2025, 2, 28)},
		{NewDate(2025, 11, 30), 3, NewDate(2026, 2, 28)},
		{NewDate(2024, 2, 29), 12, NewDate(2025, 2, 28)},
		{NewDate(2025, 5, 15), 1, NewDate(2025, 6, 15)},
	}
	for _, tc := range cases {
		if got := tc.from.AddMonths(tc.n); got != tc.want {
			t.Errorf("%s + %d months = %s, want %s", tc.from, tc.n, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due Date `json:"due"`
	}
	if err := json.Unmarshal([]byte(`{"due":"2026-02-01"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Due != NewDate(2026, 2, 1) {
		t.Fatalf("got %v", payload.Due)
	}
	out, err := json.Marshal(payload)
	if err != nil || string(out) != `{"due":"2026-02-01"}` {
		t.Fatalf("marshal: %s (err=%v)", out, err)
	}
	if err := json.Unmarshal([]byte(`{"due":"soon"}`), &payload); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"due":""}`), &payload); err != nil || !payload.Due.IsZero() {
		t.Fatalf("empty string should decode to zero date, got %v (err=%v)", payload.Due, err)
	}
}
