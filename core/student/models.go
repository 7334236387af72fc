package student

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	// Guardian is a parent/caretaker attached to a Student.
	// At most one per student is conceptually flagged primary; the checker
	// reports what it finds and never enforces this.
	Guardian struct {
		ID        string `json:"id"`
		StudentID string `json:"student_id"`
		Name      string `json:"name"`
		Relation  string `json:"relation"` // free text: "mother", "father", "legal guardian", ...
		Phone     string `json:"phone,omitempty"`
		Email     string `json:"email,omitempty"`
		IsPrimary bool   `json:"is_primary"`
	}

	// Address is a postal address, usually recovered from a notes blob.
	Address struct {
		Street   string `json:"street"`
		Number   string `json:"number"`
		District string `json:"district,omitempty"`
		City     string `json:"city"`
		State    string `json:"state,omitempty"`
		Zip      string `json:"zip,omitempty"`
	}

	// Student is a person record as read from the store.
	Student struct {
		ID         string     `json:"id"`
		SchoolID   string     `json:"school_id"`
		Name       string     `json:"name"`
		Email      string     `json:"email,omitempty"`
		Enrollment string     `json:"enrollment_number,omitempty"`
		BirthDate  time.Time  `json:"birth_date,omitempty"` // zero = unknown
		Phones     []string   `json:"phones,omitempty"`
		Notes      string     `json:"notes,omitempty"` // semi-structured blob, see ParseNotes
		Guardians  []Guardian `json:"guardians,omitempty"`
		CreatedAt  time.Time  `json:"created_at"` // UTC
		UpdatedAt  time.Time  `json:"updated_at"` // UTC
	}

	// GetFilter selects a single student; exactly one field should be set.
	GetFilter struct {
		ID string
	}

	// Repository is the narrow store surface the engines run against.
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)

		// Duplicate-check lookups. All are scoped to a school and skip
		// excludeID (pass "" to keep every row).
		FindByDigitDocument(ctx context.Context, schoolID, digits, excludeID string) ([]Student, error)
		FindByEnrollment(ctx context.Context, schoolID, enrollment, excludeID string) ([]Student, error)
		FindByEmail(ctx context.Context, schoolID, email, excludeID string) ([]Student, error)
		FindByNameCI(ctx context.Context, schoolID, name, excludeID string) ([]Student, error)
		FindAllInSchool(ctx context.Context, schoolID, excludeID string) ([]Student, error)
		FindGuardiansByStudentIDs(ctx context.Context, ids []string) (map[string][]Guardian, error)
	}
)

// BirthDateEquals compares date components only.
func (s Student) BirthDateEquals(t time.Time) bool {
	if s.BirthDate.IsZero() || t.IsZero() {
		return false
	}
	y1, m1, d1 := s.BirthDate.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Candidate is the subset of fields submitted for a duplicate check.
// An empty field means "skip this check", not "match empty".
type Candidate struct {
	SchoolID   string  `json:"school_id"`
	CPF        string  `json:"cpf,omitempty"`
	Enrollment string  `json:"enrollment_number,omitempty"`
	Name       string  `json:"name,omitempty"`
	BirthDate  string  `json:"birth_date,omitempty"` // YYYY-MM-DD
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email,omitempty"`
	Address    Address `json:"address,omitempty"`
}

func (c Candidate) hasAddress() bool {
	return c.Address.Street != "" && c.Address.Number != "" && c.Address.City != ""
}
