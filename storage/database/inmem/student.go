package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectklase/comunika/core"
	"github.com/projectklase/comunika/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

// query returns rows in creation order. Callers must hold the lock.
func (r *studentRepository) query() []student.Student {
	res := make([]student.Student, 0, len(r.db.t))
	for _, st := range r.db.t {
		res = append(res, *st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res
}

func (r *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	st.ID = uuid.New().String()
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	for i := range st.Guardians {
		g := st.Guardians[i]
		g.ID = uuid.New().String()
		g.StudentID = st.ID
		st.Guardians[i] = g
		r.db.guardians[st.ID] = append(r.db.guardians[st.ID], g)
	}
	r.db.t[st.ID] = &st
	return st, nil
}

func (r *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	old, ok := r.db.t[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.CreatedAt = old.CreatedAt
	st.UpdatedAt = time.Now().UTC()
	r.db.t[st.ID] = &st
	return st, nil
}

func (r *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if st, ok := r.db.t[id]; ok {
		res := *st
		res.Guardians = append([]student.Guardian(nil), r.db.guardians[id]...)
		return res, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (r *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(), nil
}

func (r *studentRepository) FindByDigitDocument(ctx context.Context, schoolID, digits, excludeID string) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var matches []student.Student
	for _, st := range r.query() {
		if st.SchoolID != schoolID || st.ID == excludeID || st.Notes == "" {
			continue
		}
		parsed := student.ParseNotes(st.Notes)
		if parsed.Document != "" && core.DigitsOnly(parsed.Document) == digits {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (r *studentRepository) FindByEnrollment(ctx context.Context, schoolID, enrollment, excludeID string) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var matches []student.Student
	for _, st := range r.query() {
		if st.SchoolID == schoolID && st.ID != excludeID && st.Enrollment == enrollment {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (r *studentRepository) FindByEmail(ctx context.Context, schoolID, email, excludeID string) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var matches []student.Student
	for _, st := range r.query() {
		if st.SchoolID == schoolID && st.ID != excludeID && strings.EqualFold(st.Email, email) {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (r *studentRepository) FindByNameCI(ctx context.Context, schoolID, name, excludeID string) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var matches []student.Student
	for _, st := range r.query() {
		if st.SchoolID == schoolID && st.ID != excludeID && strings.EqualFold(st.Name, name) {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (r *studentRepository) FindAllInSchool(ctx context.Context, schoolID, excludeID string) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var matches []student.Student
	for _, st := range r.query() {
		if st.SchoolID == schoolID && st.ID != excludeID {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (r *studentRepository) FindGuardiansByStudentIDs(ctx context.Context, ids []string) (map[string][]student.Guardian, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	byStudent := make(map[string][]student.Guardian, len(ids))
	for _, id := range ids {
		if gs := r.db.guardians[id]; len(gs) > 0 {
			byStudent[id] = append([]student.Guardian(nil), gs...)
		}
	}
	return byStudent, nil
}

// AddGuardian attaches a guardian to an existing student. Not part of
// student.Repository; tests and fixtures use it.
func (r *studentRepository) AddGuardian(studentID string, g student.Guardian) student.Guardian {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	g.ID = uuid.New().String()
	g.StudentID = studentID
	r.db.guardians[studentID] = append(r.db.guardians[studentID], g)
	return g
}
