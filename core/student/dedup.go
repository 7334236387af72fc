package student

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/projectklase/comunika/core"
)

// Fields a blocking issue can be reported against.
const (
	FieldCPF        = "cpf"
	FieldEnrollment = "enrollment_number"
	FieldEmail      = "email"
	FieldPhone      = "phone"
)

// Similarity types.
const (
	SimName    = "name"
	SimNameDOB = "name_dob"
	SimPhone   = "phone"
	SimAddress = "address"
)

// Similarity severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type (
	// BlockingIssue is fatal: the candidate must not be persisted while one is present.
	BlockingIssue struct {
		Field    string  `json:"field"`
		Message  string  `json:"message"`
		Existing Student `json:"existing_user"`
	}

	// Similarity is advisory; the caller may proceed after explicit confirmation.
	Similarity struct {
		Type     string    `json:"type"`
		Severity string    `json:"severity"`
		Message  string    `json:"message"`
		Existing []Student `json:"existing_users"`
	}

	// Result classifies everything found for one candidate.
	Result struct {
		HasBlocking     bool            `json:"has_blocking"`
		Blocking        []BlockingIssue `json:"blocking_issues"`
		HasSimilarities bool            `json:"has_similarities"`
		Similarities    []Similarity    `json:"similarities"`
	}

	// Checker classifies a candidate against the records of one school.
	Checker struct {
		repo   Repository
		logger core.Logger
	}
)

func NewChecker(repo Repository, logger core.Logger) *Checker {
	return &Checker{repo: repo, logger: logger}
}

// findings of a single rule; assembled in rule order so results are stable.
type findings struct {
	blocking     []BlockingIssue
	similarities []Similarity
}

// CheckDuplicates runs every applicable rule for `cand` within its school,
// skipping the record identified by excludeID (the record being edited).
// Rules run concurrently; a failed lookup only silences its own rule.
// It always returns a usable Result and never returns an error.
func (c *Checker) CheckDuplicates(ctx context.Context, cand Candidate, excludeID string) Result {
	snap := &schoolSnapshot{}

	rules := []func(context.Context, Candidate, string, *schoolSnapshot) findings{
		c.checkCPF,
		c.checkEnrollment,
		c.checkEmail,
		c.checkName,
		c.checkPhone,
		c.checkAddress,
	}

	slots := make([]findings, len(rules))
	var wg sync.WaitGroup
	for i, rule := range rules {
		wg.Add(1)
		go func(i int, rule func(context.Context, Candidate, string, *schoolSnapshot) findings) {
			defer wg.Done()
			slots[i] = rule(ctx, cand, excludeID, snap)
		}(i, rule)
	}
	wg.Wait()

	var res Result
	for _, f := range slots {
		res.Blocking = append(res.Blocking, f.blocking...)
		res.Similarities = append(res.Similarities, f.similarities...)
	}
	res.HasBlocking = len(res.Blocking) > 0
	res.HasSimilarities = len(res.Similarities) > 0
	return res
}

// 1. National ID (cpf) — blocking.
func (c *Checker) checkCPF(ctx context.Context, cand Candidate, excludeID string, _ *schoolSnapshot) findings {
	digits := core.DigitsOnly(cand.CPF)
	if digits == "" {
		return findings{}
	}

	matches, err := c.repo.FindByDigitDocument(ctx, cand.SchoolID, digits, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: cpf lookup failed", err)
		return findings{}
	}

	var f findings
	for _, st := range matches {
		f.blocking = append(f.blocking, BlockingIssue{
			Field:    FieldCPF,
			Message:  "a student with this CPF is already registered",
			Existing: st,
		})
	}
	return f
}

// 2. Enrollment number — blocking.
func (c *Checker) checkEnrollment(ctx context.Context, cand Candidate, excludeID string, _ *schoolSnapshot) findings {
	enrollment := core.CleanString(cand.Enrollment)
	if enrollment == "" {
		return findings{}
	}

	matches, err := c.repo.FindByEnrollment(ctx, cand.SchoolID, enrollment, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: enrollment lookup failed", err)
		return findings{}
	}

	var f findings
	for _, st := range matches {
		f.blocking = append(f.blocking, BlockingIssue{
			Field:    FieldEnrollment,
			Message:  "this enrollment number is already in use",
			Existing: st,
		})
	}
	return f
}

// 3. Email — blocking. Stored emails are lowercase, so the candidate is
// lowered before the exact-match query. Only the first match blocks; extra
// rows mean the store itself holds duplicate emails, which is logged rather
// than silently discarded.
func (c *Checker) checkEmail(ctx context.Context, cand Candidate, excludeID string, _ *schoolSnapshot) findings {
	email := core.CleanString(cand.Email, true /* lower */)
	if email == "" {
		return findings{}
	}

	matches, err := c.repo.FindByEmail(ctx, cand.SchoolID, email, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: email lookup failed", err)
		return findings{}
	}
	if len(matches) == 0 {
		return findings{}
	}
	if len(matches) > 1 {
		ids := make([]string, 0, len(matches))
		for _, st := range matches {
			ids = append(ids, st.ID)
		}
		c.logger.Warn(fmt.Sprintf(
			"duplicate check: email %q is stored on %d records (%s); the store holds duplicate emails",
			email, len(matches), strings.Join(ids, ", ")))
	}

	return findings{blocking: []BlockingIssue{{
		Field:    FieldEmail,
		Message:  "a student with this email already exists",
		Existing: matches[0],
	}}}
}

// 4. Name — similarity (low), escalated to high for name+birth-date matches.
func (c *Checker) checkName(ctx context.Context, cand Candidate, excludeID string, _ *schoolSnapshot) findings {
	name := core.CleanString(cand.Name)
	if name == "" {
		return findings{}
	}

	matches, err := c.repo.FindByNameCI(ctx, cand.SchoolID, name, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: name lookup failed", err)
		return findings{}
	}
	if len(matches) == 0 {
		return findings{}
	}

	nameOnly := matches
	var withDOB []Student
	if dob, ok := core.ParseDate(cand.BirthDate); ok {
		nameOnly = nameOnly[:0:0]
		for _, st := range matches {
			if st.BirthDateEquals(dob) {
				withDOB = append(withDOB, st)
			} else {
				nameOnly = append(nameOnly, st)
			}
		}
	}

	var f findings
	if len(withDOB) > 0 {
		f.similarities = append(f.similarities, Similarity{
			Type:     SimNameDOB,
			Severity: SeverityHigh,
			Message:  "a student with the same name and birth date already exists",
			Existing: withDOB,
		})
	}
	if len(nameOnly) > 0 {
		f.similarities = append(f.similarities, Similarity{
			Type:     SimName,
			Severity: SeverityLow,
			Message:  "students with the same name already exist",
			Existing: nameOnly,
		})
	}
	return f
}

// 5. Phone — similarity (medium). Stored phones come in every format the
// school office ever typed, so the whole school is fetched and each number is
// normalized before comparison. Guardian phones match too: the most actionable
// hit is "this parent is already registered under another student".
func (c *Checker) checkPhone(ctx context.Context, cand Candidate, excludeID string, snap *schoolSnapshot) findings {
	norm := core.NormalizePhone(cand.Phone)
	if norm == "" {
		return findings{}
	}

	students, guardians, err := snap.load(ctx, c.repo, cand.SchoolID, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: phone lookup failed", err)
		return findings{}
	}

	var matched []Student
	for _, st := range students {
		if st.ID == excludeID {
			continue
		}
		if phoneMatches(st, guardians[st.ID], norm) {
			st.Guardians = guardians[st.ID]
			matched = append(matched, st)
		}
	}
	if len(matched) == 0 {
		return findings{}
	}

	return findings{similarities: []Similarity{{
		Type:     SimPhone,
		Severity: SeverityMedium,
		Message:  "this phone number is already registered on another record",
		Existing: matched,
	}}}
}

func phoneMatches(st Student, guardians []Guardian, norm string) bool {
	for _, p := range st.Phones {
		if n := core.NormalizePhone(p); n != "" && n == norm {
			return true
		}
	}
	for _, g := range guardians {
		if n := core.NormalizePhone(g.Phone); n != "" && n == norm {
			return true
		}
	}
	return false
}

// 6. Address — similarity (medium). Runs only when street, number and city
// are all supplied; stored addresses are recovered from the notes blob.
func (c *Checker) checkAddress(ctx context.Context, cand Candidate, excludeID string, snap *schoolSnapshot) findings {
	if !cand.hasAddress() {
		return findings{}
	}

	students, guardians, err := snap.load(ctx, c.repo, cand.SchoolID, excludeID)
	if err != nil {
		c.logger.Error("duplicate check: address lookup failed", err)
		return findings{}
	}

	var matched []Student
	for _, st := range students {
		if st.ID == excludeID {
			continue
		}
		addr := ParseNotes(st.Notes).Address
		if addr.Street == "" {
			continue
		}
		if strings.EqualFold(addr.Street, core.CleanString(cand.Address.Street)) &&
			addr.Number == core.CleanString(cand.Address.Number) &&
			strings.EqualFold(addr.City, core.CleanString(cand.Address.City)) {
			st.Guardians = guardians[st.ID]
			matched = append(matched, st)
		}
	}
	if len(matched) == 0 {
		return findings{}
	}

	return findings{similarities: []Similarity{{
		Type:     SimAddress,
		Severity: SeverityMedium,
		Message:  "a student registered at this address already exists",
		Existing: matched,
	}}}
}

// schoolSnapshot shares the all-records fetch between the phone and address
// rules so a single check never pulls the school twice.
type schoolSnapshot struct {
	once      sync.Once
	students  []Student
	guardians map[string][]Guardian
	err       error
}

func (s *schoolSnapshot) load(
	ctx context.Context,
	repo Repository,
	schoolID, excludeID string,
) ([]Student, map[string][]Guardian, error) {
	s.once.Do(func() {
		s.students, s.err = repo.FindAllInSchool(ctx, schoolID, excludeID)
		if s.err != nil {
			return
		}
		ids := make([]string, 0, len(s.students))
		for _, st := range s.students {
			ids = append(ids, st.ID)
		}
		s.guardians, s.err = repo.FindGuardiansByStudentIDs(ctx, ids)
	})
	return s.students, s.guardians, s.err
}
