package staff

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// errors
	ErrNotFound = errors.New("staff member not found")
)

type (
	// Staff is a school-office account; it exists to authenticate the API
	// and the admin CLI, nothing more.
	Staff struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		IsAdmin      bool      `json:"is_admin"`
		IsActive     *bool     `json:"is_active"`
		PasswordHash []byte    `json:"-"`
		CreatedAt    time.Time `json:"created_at"` // UTC
		UpdatedAt    time.Time `json:"updated_at"` // UTC
		LastLogin    time.Time `json:"last_login"` // UTC
	}

	// GetFilter selects a single staff member; set exactly one field.
	GetFilter struct {
		ID              string
		Username        string
		Email           string
		UsernameOrEmail []string // {username, email}
	}

	Repository interface {
		CreateStaff(ctx context.Context, s Staff) (Staff, error)
		UpdateStaff(ctx context.Context, s Staff) (Staff, error)
		GetStaff(ctx context.Context, filter GetFilter) (Staff, error)
	}
)

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Staff) SetActive(active bool) {
	s.IsActive = &active
}
