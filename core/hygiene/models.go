package hygiene

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNoReport = errors.New("no hygiene report has been recorded")
)

type (
	// Report summarizes one bulk hygiene pass. TotalErrors is -1 when the
	// pass itself failed and nothing can be said about the data.
	Report struct {
		ID            string    `json:"id"`
		PhonesFixed   int       `json:"phones_fixed"`
		PhonesInvalid int       `json:"phones_invalid"`
		DatesAdjusted int       `json:"dates_adjusted"`
		TitlesTrimmed int       `json:"titles_trimmed"`
		TextsClipped  int       `json:"texts_clipped"`
		TotalErrors   int       `json:"total_errors"`
		CreatedAt     time.Time `json:"created_at"` // UTC
	}

	ReportRepository interface {
		SaveReport(ctx context.Context, r Report) (Report, error)
		LatestReport(ctx context.Context) (Report, error)
	}
)

// Failed reports whether this is the sentinel produced by a crashed pass.
func (r Report) Failed() bool {
	return r.TotalErrors < 0
}
