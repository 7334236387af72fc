package post

import (
	"time"

	"github.com/projectklase/comunika/core"
)

const (
	titleMaxLen    = 120
	bodyMaxLen     = 1000
	locationMaxLen = 200
)

type (
	// Draft is a post as submitted by a form; dates arrive as strings.
	Draft struct {
		ID            string `json:"id,omitempty"`
		SchoolID      string `json:"school_id"`
		Title         string `json:"title"`
		Body          string `json:"body,omitempty"`
		DueAt         string `json:"due_at,omitempty"`
		PublishAt     string `json:"publish_at,omitempty"`
		EventStartAt  string `json:"event_start_at,omitempty"`
		EventEndAt    string `json:"event_end_at,omitempty"`
		EventLocation string `json:"event_location,omitempty"`
	}

	// ValidationResult always carries the sanitized post, even when invalid.
	// PublishMoved is set when the publish date was silently moved forward to
	// now, so the UI can say so even when nothing else was adjusted.
	ValidationResult struct {
		Valid        bool              `json:"is_valid"`
		Post         Post              `json:"data"`
		Errors       []core.FieldError `json:"errors"`
		Adjustments  []core.Adjustment `json:"adjustments"`
		PublishMoved bool              `json:"publish_moved,omitempty"`
	}
)

// DraftFromPost rebuilds the form representation of a stored post, which is
// what the bulk hygiene pass feeds back through ValidateDraft.
func DraftFromPost(p Post) Draft {
	d := Draft{
		ID:            p.ID,
		SchoolID:      p.SchoolID,
		Title:         p.Title,
		Body:          p.Body,
		EventLocation: p.EventLocation,
	}
	if !p.DueAt.IsZero() {
		d.DueAt = p.DueAt.Format(time.RFC3339)
	}
	if !p.PublishAt.IsZero() {
		d.PublishAt = p.PublishAt.Format(time.RFC3339)
	}
	if !p.EventStartAt.IsZero() {
		d.EventStartAt = p.EventStartAt.Format(time.RFC3339)
	}
	if !p.EventEndAt.IsZero() {
		d.EventEndAt = p.EventEndAt.Format(time.RFC3339)
	}
	return d
}

// ValidateDraft sanitizes and structurally validates a post draft.
// allowPast disables the past-date handling (the bulk hygiene pass sets it so
// historical deadlines are not rejected retroactively).
func ValidateDraft(d Draft, allowPast ...bool) ValidationResult {
	var past bool
	if len(allowPast) > 0 {
		past = allowPast[0]
	}

	res := ValidationResult{Post: Post{ID: d.ID, SchoolID: d.SchoolID}}

	// title: required, clamped
	title := core.SanitizeText(d.Title, titleMaxLen)
	if title == "" {
		res.Errors = append(res.Errors, core.FieldError{
			Field: "title", Error: "title is required", Value: d.Title,
		})
	} else if title != d.Title {
		reason := core.AdjustTrimmed
		if len([]rune(title)) == titleMaxLen {
			reason = core.AdjustTruncated
		}
		res.Adjustments = append(res.Adjustments, core.Adjustment{
			Field: "title", Reason: reason, Old: d.Title, New: title,
		})
	}
	res.Post.Title = title

	// body: whitespace-normalized then clamped
	if d.Body != "" {
		body := core.SanitizeText(core.NormalizeSpaces(d.Body), bodyMaxLen)
		if body != d.Body {
			reason := core.AdjustTrimmed
			if len([]rune(body)) == bodyMaxLen {
				reason = core.AdjustTruncated
			}
			res.Adjustments = append(res.Adjustments, core.Adjustment{
				Field: "body", Reason: reason, Old: d.Body, New: body,
			})
		}
		res.Post.Body = body
	}

	// due date
	if d.DueAt != "" {
		check := core.ValidateDate(d.DueAt, core.DateDue, time.Time{}, past)
		if !check.Valid {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "due_at", Error: check.Err, Value: d.DueAt,
			})
		} else {
			res.Post.DueAt = check.Value
		}
	}

	// publish date: a publish date in the past means "publish immediately"
	if d.PublishAt != "" {
		check := core.ValidateDate(d.PublishAt, core.DatePublish, time.Time{}, past)
		if !check.Valid {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "publish_at", Error: check.Err, Value: d.PublishAt,
			})
		} else {
			res.Post.PublishAt = check.Value
			if check.Adjusted {
				res.PublishMoved = true
				res.Adjustments = append(res.Adjustments, core.Adjustment{
					Field:  "publish_at",
					Reason: core.AdjustPublishMoved,
					Old:    d.PublishAt,
					New:    check.Value.Format(time.RFC3339),
				})
			}
		}
	}

	// event window
	if d.EventStartAt != "" {
		check := core.ValidateDate(d.EventStartAt, core.DateEventStart, time.Time{}, past)
		if !check.Valid {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "event_start_at", Error: check.Err, Value: d.EventStartAt,
			})
		} else {
			res.Post.EventStartAt = check.Value
		}
	}
	if d.EventEndAt != "" {
		check := core.ValidateDate(d.EventEndAt, core.DateEventEnd, res.Post.EventStartAt, past)
		if !check.Valid {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "event_end_at", Error: check.Err, Value: d.EventEndAt,
			})
		} else {
			res.Post.EventEndAt = check.Value
		}
	}

	// event location
	if d.EventLocation != "" {
		loc := core.SanitizeText(d.EventLocation, locationMaxLen)
		if loc != d.EventLocation {
			reason := core.AdjustTrimmed
			if len([]rune(loc)) == locationMaxLen {
				reason = core.AdjustTruncated
			}
			res.Adjustments = append(res.Adjustments, core.Adjustment{
				Field: "event_location", Reason: reason, Old: d.EventLocation, New: loc,
			})
		}
		res.Post.EventLocation = loc
	}

	res.Valid = len(res.Errors) == 0
	return res
}
