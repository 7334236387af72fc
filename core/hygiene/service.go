package hygiene

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync/atomic"
	"time"

	"github.com/projectklase/comunika/core"
	"github.com/projectklase/comunika/core/class"
	"github.com/projectklase/comunika/core/post"
	"github.com/projectklase/comunika/core/student"
)

// Service runs the bulk hygiene pass: every stored record through the same
// validators the submit path uses, with past dates allowed so historical data
// is not rejected retroactively.
type Service struct {
	students student.Repository
	posts    post.Repository
	classes  class.Repository
	reports  ReportRepository
	mailSvc  core.EmailService
	logger   core.Logger
	conf     *core.Config

	running int32
}

func NewService(
	students student.Repository,
	posts post.Repository,
	classes class.Repository,
	reports ReportRepository,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		students: students,
		posts:    posts,
		classes:  classes,
		reports:  reports,
		mailSvc:  mailSvc,
		logger:   logger,
		conf:     conf,
	}
}

// Run sweeps every stored student/post/class, persists cleaned records and a
// timestamped report, and never returns an error: a crashed pass yields the
// TotalErrors=-1 sentinel report instead. Running it on already-clean data
// changes nothing. At most one pass runs at a time; a second concurrent call
// returns the latest stored report untouched.
func (svc *Service) Run(ctx context.Context) (report Report) {
	if !atomic.CompareAndSwapInt32(&svc.running, 0, 1) {
		svc.logger.Warn("hygiene pass already running; returning last report")
		last, err := svc.reports.LatestReport(ctx)
		if err != nil {
			return Report{TotalErrors: -1, CreatedAt: time.Now().UTC()}
		}
		return last
	}
	defer atomic.StoreInt32(&svc.running, 0)

	defer func() {
		if r := recover(); r != nil {
			svc.logger.Error(fmt.Sprintf("hygiene pass crashed: %v", r))
			report = svc.save(ctx, Report{TotalErrors: -1})
		}
	}()

	var tally Report

	if ok := svc.sweepStudents(ctx, &tally); !ok {
		return svc.save(ctx, Report{TotalErrors: -1})
	}
	if ok := svc.sweepPosts(ctx, &tally); !ok {
		return svc.save(ctx, Report{TotalErrors: -1})
	}
	if ok := svc.sweepClasses(ctx, &tally); !ok {
		return svc.save(ctx, Report{TotalErrors: -1})
	}

	report = svc.save(ctx, tally)
	svc.mailReport(report)
	return report
}

// LastReport reads back the most recently persisted report.
func (svc *Service) LastReport(ctx context.Context) (Report, error) {
	return svc.reports.LatestReport(ctx)
}

func (svc *Service) sweepStudents(ctx context.Context, tally *Report) bool {
	students, err := svc.students.QueryAllStudents(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("hygiene: querying students: %v", err), err)
		return false
	}

	for _, st := range students {
		res := student.ValidateDraft(student.DraftFromStudent(st))
		svc.countErrors(res.Errors, tally)

		// dropped phone entries are themselves a fix worth persisting;
		// other hard errors (blank name, bad email) cannot be fixed here
		// and leave the record untouched
		phonesDropped := len(res.Draft.Phones) < len(st.Phones)
		if !phonesOnly(res.Errors) {
			continue
		}
		if len(res.Adjustments) == 0 && !phonesDropped {
			continue
		}
		svc.countAdjustments(res.Adjustments, tally)

		st.Name = res.Draft.Name
		st.Email = res.Draft.Email
		st.Phones = res.Draft.Phones
		st.UpdatedAt = time.Now().UTC()
		if _, err := svc.students.UpdateStudent(ctx, st); err != nil {
			svc.logger.Error(fmt.Sprintf("hygiene: updating student %s: %v", st.ID, err), err)
		}
	}
	return true
}

func (svc *Service) sweepPosts(ctx context.Context, tally *Report) bool {
	posts, err := svc.posts.QueryAllPosts(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("hygiene: querying posts: %v", err), err)
		return false
	}

	for _, p := range posts {
		res := post.ValidateDraft(post.DraftFromPost(p), true /* allowPast */)
		svc.countErrors(res.Errors, tally)

		if !res.Valid || len(res.Adjustments) == 0 {
			continue
		}
		svc.countAdjustments(res.Adjustments, tally)
		cleaned := res.Post
		cleaned.CreatedAt = p.CreatedAt
		cleaned.UpdatedAt = time.Now().UTC()
		if _, err := svc.posts.UpdatePost(ctx, cleaned); err != nil {
			svc.logger.Error(fmt.Sprintf("hygiene: updating post %s: %v", p.ID, err), err)
		}
	}
	return true
}

func (svc *Service) sweepClasses(ctx context.Context, tally *Report) bool {
	classes, err := svc.classes.QueryAllClasses(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("hygiene: querying classes: %v", err), err)
		return false
	}

	for _, cls := range classes {
		res := class.ValidateDraft(class.Draft{ID: cls.ID, SchoolID: cls.SchoolID, Name: cls.Name, Code: cls.Code})
		svc.countErrors(res.Errors, tally)

		if !res.Valid || len(res.Adjustments) == 0 {
			continue
		}
		svc.countAdjustments(res.Adjustments, tally)
		cleaned := res.Class
		cleaned.CreatedAt = cls.CreatedAt
		cleaned.UpdatedAt = time.Now().UTC()
		if _, err := svc.classes.UpdateClass(ctx, cleaned); err != nil {
			svc.logger.Error(fmt.Sprintf("hygiene: updating class %s: %v", cls.ID, err), err)
		}
	}
	return true
}

// countAdjustments buckets applied fixes into the report counters; it is only
// called for records that were actually persisted, so a repeat pass over the
// same data keeps these counters at zero.
func (svc *Service) countAdjustments(adjustments []core.Adjustment, tally *Report) {
	for _, adj := range adjustments {
		switch {
		case adj.Reason == core.AdjustPhoneFormat:
			tally.PhonesFixed++
		case adj.Reason == core.AdjustPublishMoved:
			tally.DatesAdjusted++
		case adj.Field == "title" || adj.Field == "name":
			tally.TitlesTrimmed++
		case adj.Reason == core.AdjustTrimmed || adj.Reason == core.AdjustTruncated:
			tally.TextsClipped++
		}
	}
}

func (svc *Service) countErrors(errs []core.FieldError, tally *Report) {
	for _, fe := range errs {
		if strings.HasPrefix(fe.Field, "phones[") {
			tally.PhonesInvalid++
		}
		tally.TotalErrors++
	}
}

// phonesOnly reports whether every error is scoped to a phone entry.
func phonesOnly(errs []core.FieldError) bool {
	for _, fe := range errs {
		if !strings.HasPrefix(fe.Field, "phones[") {
			return false
		}
	}
	return true
}

func (svc *Service) save(ctx context.Context, r Report) Report {
	r.CreatedAt = time.Now().UTC()
	saved, err := svc.reports.SaveReport(ctx, r)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("hygiene: saving report: %v", err), err)
		return r
	}
	return saved
}

func (svc *Service) mailReport(r Report) {
	if svc.mailSvc == nil || svc.conf == nil || svc.conf.HygieneRecipient == "" {
		return
	}
	body := fmt.Sprintf(
		"Data hygiene pass finished at %s.\n\n"+
			"Phones fixed:    %d\n"+
			"Phones invalid:  %d\n"+
			"Dates adjusted:  %d\n"+
			"Titles trimmed:  %d\n"+
			"Texts clipped:   %d\n"+
			"Errors remaining: %d\n",
		r.CreatedAt.Format(time.RFC1123),
		r.PhonesFixed, r.PhonesInvalid, r.DatesAdjusted, r.TitlesTrimmed, r.TextsClipped, r.TotalErrors,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.HygieneRecipient}},
		Subject: "Data hygiene report",
		BodyStr: body,
	})
}
