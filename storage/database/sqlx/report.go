package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/projectklase/comunika/core/hygiene"
)

type reportRepository struct {
	db *sqlx.DB
}

var _ hygiene.ReportRepository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

type reportRow struct {
	ID            string    `db:"id"`
	PhonesFixed   int       `db:"phones_fixed"`
	PhonesInvalid int       `db:"phones_invalid"`
	DatesAdjusted int       `db:"dates_adjusted"`
	TitlesTrimmed int       `db:"titles_trimmed"`
	TextsClipped  int       `db:"texts_clipped"`
	TotalErrors   int       `db:"total_errors"`
	CreatedAt     time.Time `db:"created_at"`
}

func (repo reportRepository) fromRow(row reportRow) hygiene.Report {
	return hygiene.Report{
		ID:            row.ID,
		PhonesFixed:   row.PhonesFixed,
		PhonesInvalid: row.PhonesInvalid,
		DatesAdjusted: row.DatesAdjusted,
		TitlesTrimmed: row.TitlesTrimmed,
		TextsClipped:  row.TextsClipped,
		TotalErrors:   row.TotalErrors,
		CreatedAt:     row.CreatedAt,
	}
}

const reportColumns = `id, phones_fixed, phones_invalid, dates_adjusted, titles_trimmed, texts_clipped, total_errors, created_at`

func (repo reportRepository) SaveReport(ctx context.Context, r hygiene.Report) (hygiene.Report, error) {
	r.ID = uuid.New().String()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	row := reportRow{
		ID:            r.ID,
		PhonesFixed:   r.PhonesFixed,
		PhonesInvalid: r.PhonesInvalid,
		DatesAdjusted: r.DatesAdjusted,
		TitlesTrimmed: r.TitlesTrimmed,
		TextsClipped:  r.TextsClipped,
		TotalErrors:   r.TotalErrors,
		CreatedAt:     r.CreatedAt.UTC(),
	}

	query := `
	INSERT INTO hygiene_report (` + reportColumns + `)
	VALUES (:id, :phones_fixed, :phones_invalid, :dates_adjusted, :titles_trimmed, :texts_clipped, :total_errors, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return hygiene.Report{}, errors.Wrap(err, "inserting hygiene report")
	}
	return r, nil
}

func (repo reportRepository) LatestReport(ctx context.Context) (hygiene.Report, error) {
	var row reportRow
	query := `SELECT ` + reportColumns + ` FROM hygiene_report ORDER BY created_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &row, query); err != nil {
		if err == sql.ErrNoRows {
			return hygiene.Report{}, hygiene.ErrNoReport
		}
		return hygiene.Report{}, errors.Wrap(err, "finding latest hygiene report")
	}
	return repo.fromRow(row), nil
}
