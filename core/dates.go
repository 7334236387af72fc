package core

import "time"

// DatePolicy selects how a parsed date is judged.
type DatePolicy string

const (
	// DateDue rejects dates in the past unless explicitly allowed.
	DateDue DatePolicy = "due"
	// DatePublish silently moves past dates forward to now.
	DatePublish DatePolicy = "publish"
	// DateEventStart only requires the date to parse.
	DateEventStart DatePolicy = "event_start"
	// DateEventEnd additionally requires the date not to precede its paired start.
	DateEventEnd DatePolicy = "event_end"
)

// accepted input layouts, most specific first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

var nowFunc = time.Now // mockable

// publishGrace keeps re-validation of freshly adjusted drafts stable:
// a publish date is only "in the past" once it is at least this far behind.
const publishGrace = time.Minute

// DateCheck is the outcome of validating a date string.
type DateCheck struct {
	Value    time.Time
	Valid    bool
	Adjusted bool
	Err      string
}

// ParseDate parses `raw` against the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateDate parses and judges `raw` under `policy`.
// `compare` is the paired start date for DateEventEnd; `allowPast` disables the
// past-date handling of DateDue and DatePublish (used by the bulk hygiene pass
// so historical records are left alone).
func ValidateDate(raw string, policy DatePolicy, compare time.Time, allowPast bool) DateCheck {
	t, ok := ParseDate(raw)
	if !ok {
		return DateCheck{Err: "invalid date"}
	}

	check := DateCheck{Value: t, Valid: true}
	now := nowFunc()

	switch policy {
	case DateDue:
		if !allowPast && t.Before(now) {
			return DateCheck{Value: t, Err: "deadline cannot be in the past"}
		}
	case DatePublish:
		if !allowPast && t.Before(now.Add(-publishGrace)) {
			check.Value = now
			check.Adjusted = true
		}
	case DateEventEnd:
		if !compare.IsZero() && t.Before(compare) {
			return DateCheck{Value: t, Err: "event end cannot precede event start"}
		}
	}
	return check
}
