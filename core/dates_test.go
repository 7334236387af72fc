package core

import (
	"testing"
	"time"
)

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func Test_ParseDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOk bool
	}{
		{name: "rfc3339", in: "2026-03-01T10:30:00Z", want: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), wantOk: true},
		{name: "datetime-local", in: "2026-03-01T10:30", want: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), wantOk: true},
		{name: "date only", in: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), wantOk: true},
		{name: "empty", in: "", wantOk: false},
		{name: "garbage", in: "not-a-date", wantOk: false},
		{name: "br format rejected", in: "01/03/2026", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantOk {
				t.Fatalf("ParseDate() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ValidateDate_due(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockNow(t, now)

	t.Run("future accepted", func(t *testing.T) {
		check := ValidateDate("2026-03-02T12:00:00Z", DateDue, time.Time{}, false)
		if !check.Valid || check.Adjusted {
			t.Errorf("ValidateDate() = %+v, want valid unadjusted", check)
		}
	})
	t.Run("past rejected", func(t *testing.T) {
		check := ValidateDate("2026-02-28T12:00:00Z", DateDue, time.Time{}, false)
		if check.Valid {
			t.Fatalf("ValidateDate() = %+v, want invalid", check)
		}
		if check.Err != "deadline cannot be in the past" {
			t.Errorf("ValidateDate().Err = %q", check.Err)
		}
	})
	t.Run("past allowed for bulk pass", func(t *testing.T) {
		check := ValidateDate("2026-02-28T12:00:00Z", DateDue, time.Time{}, true)
		if !check.Valid || check.Adjusted {
			t.Errorf("ValidateDate() = %+v, want valid unadjusted", check)
		}
	})
	t.Run("unparsable", func(t *testing.T) {
		check := ValidateDate("yesterday", DateDue, time.Time{}, false)
		if check.Valid || check.Err != "invalid date" {
			t.Errorf("ValidateDate() = %+v, want invalid date error", check)
		}
	})
}

func Test_ValidateDate_publish(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockNow(t, now)

	t.Run("past moved to now", func(t *testing.T) {
		check := ValidateDate("2026-02-20T08:00:00Z", DatePublish, time.Time{}, false)
		if !check.Valid || !check.Adjusted {
			t.Fatalf("ValidateDate() = %+v, want valid adjusted", check)
		}
		if !check.Value.Equal(now) {
			t.Errorf("ValidateDate().Value = %v, want %v", check.Value, now)
		}
	})
	t.Run("future untouched", func(t *testing.T) {
		check := ValidateDate("2026-03-05T08:00:00Z", DatePublish, time.Time{}, false)
		if !check.Valid || check.Adjusted {
			t.Errorf("ValidateDate() = %+v, want valid unadjusted", check)
		}
	})
	t.Run("just-adjusted value is stable", func(t *testing.T) {
		// a value written seconds ago must not be moved again
		check := ValidateDate(now.Add(-5*time.Second).Format(time.RFC3339), DatePublish, time.Time{}, false)
		if !check.Valid || check.Adjusted {
			t.Errorf("ValidateDate() = %+v, want valid unadjusted within grace", check)
		}
	})
	t.Run("past kept in bulk pass", func(t *testing.T) {
		check := ValidateDate("2026-02-20T08:00:00Z", DatePublish, time.Time{}, true)
		if !check.Valid || check.Adjusted {
			t.Errorf("ValidateDate() = %+v, want valid unadjusted", check)
		}
	})
}

func Test_ValidateDate_eventWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockNow(t, now)

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("start only needs to parse", func(t *testing.T) {
		check := ValidateDate("2026-02-01T09:00:00Z", DateEventStart, time.Time{}, false)
		if !check.Valid {
			t.Errorf("ValidateDate() = %+v, want valid", check)
		}
	})
	t.Run("end after start accepted", func(t *testing.T) {
		check := ValidateDate("2026-04-01T11:00:00Z", DateEventEnd, start, false)
		if !check.Valid {
			t.Errorf("ValidateDate() = %+v, want valid", check)
		}
	})
	t.Run("end before start rejected", func(t *testing.T) {
		check := ValidateDate("2026-04-01T08:00:00Z", DateEventEnd, start, false)
		if check.Valid {
			t.Fatalf("ValidateDate() = %+v, want invalid", check)
		}
		if check.Err != "event end cannot precede event start" {
			t.Errorf("ValidateDate().Err = %q", check.Err)
		}
	})
	t.Run("end without start accepted", func(t *testing.T) {
		check := ValidateDate("2026-04-01T08:00:00Z", DateEventEnd, time.Time{}, false)
		if !check.Valid {
			t.Errorf("ValidateDate() = %+v, want valid", check)
		}
	})
}
