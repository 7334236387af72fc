package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/projectklase/comunika/core/class"
	"github.com/projectklase/comunika/core/post"
	"github.com/projectklase/comunika/core/staff"
	"github.com/projectklase/comunika/core/student"
)

// Logger routes service logs to the test output.
type Logger struct {
	T *testing.T
}

func NewLogger(t *testing.T) *Logger { return &Logger{T: t} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.T.Helper()
	l.T.Logf("%s: %s %v", level, msg, args)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	schoolID, name, email, enrollment, birthDate string,
	phones []string,
	notes string,
) student.Student {
	t.Helper()

	st := student.Student{
		SchoolID:   schoolID,
		Name:       name,
		Email:      email,
		Enrollment: enrollment,
		Phones:     phones,
		Notes:      notes,
	}
	if birthDate != "" {
		bd, err := time.Parse("2006-01-02", birthDate)
		if err != nil {
			t.Fatalf("CreateStudent() bad birthDate: %v", err)
		}
		st.BirthDate = bd
	}
	st, err := repo.CreateStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

// GuardianAdder is the fixture surface of stores that can attach guardians
// outside the regular write path.
type GuardianAdder interface {
	AddGuardian(studentID string, g student.Guardian) student.Guardian
}

func CreateGuardian(
	t *testing.T,
	repo GuardianAdder,
	studentID, name, relation, phone string,
	isPrimary bool,
) student.Guardian {
	t.Helper()

	return repo.AddGuardian(studentID, student.Guardian{
		Name:      name,
		Relation:  relation,
		Phone:     phone,
		IsPrimary: isPrimary,
	})
}

func CreatePost(
	t *testing.T,
	repo post.Repository,
	schoolID, title, body string,
	dueAt, publishAt time.Time,
) post.Post {
	t.Helper()

	p, err := repo.CreatePost(context.Background(), post.Post{
		SchoolID:  schoolID,
		Title:     title,
		Body:      body,
		DueAt:     dueAt,
		PublishAt: publishAt,
	})
	if err != nil {
		t.Fatalf("CreatePost() failed: %v", err)
	}
	return p
}

func CreateClass(t *testing.T, repo class.Repository, schoolID, name, code string) class.Class {
	t.Helper()

	cls, err := repo.CreateClass(context.Background(), class.Class{
		SchoolID: schoolID,
		Name:     name,
		Code:     code,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateStaff(t *testing.T, repo staff.Repository, uname, email, pwd string, isAdmin bool) staff.Staff {
	t.Helper()

	member := staff.Staff{
		Username: uname,
		Email:    email,
		IsAdmin:  isAdmin,
	}
	member.SetActive(true)
	if pwd != "" {
		if err := member.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStaff() failed: %v", err)
		}
	}
	member, err := repo.CreateStaff(context.Background(), member)
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	return member
}
