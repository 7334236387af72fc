package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/projectklase/comunika/core/hygiene"
)

type reportRepository struct {
	db *reportTable
}

var _ hygiene.ReportRepository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db.report}
}

func (r *reportRepository) SaveReport(ctx context.Context, rep hygiene.Report) (hygiene.Report, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rep.ID = uuid.New().String()
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	r.db.t = append(r.db.t, rep)
	return rep, nil
}

func (r *reportRepository) LatestReport(ctx context.Context) (hygiene.Report, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if len(r.db.t) == 0 {
		return hygiene.Report{}, hygiene.ErrNoReport
	}
	return r.db.t[len(r.db.t)-1], nil
}
