package staff

import (
	"context"
	"time"

	"github.com/projectklase/comunika/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaff(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Staff, error) {
	uname = core.CleanString(uname, true /* lower */)
	return svc.repo.GetStaff(ctx, GetFilter{UsernameOrEmail: []string{uname, uname}})
}

func (svc *Service) SetLastLogin(ctx context.Context, s Staff) (Staff, error) {
	s.LastLogin = time.Now().UTC()
	return svc.repo.UpdateStaff(ctx, s)
}

// UpdateOrCreate upserts the account identified by username/email; used by the
// admin CLI.
func (svc *Service) UpdateOrCreate(ctx context.Context, uname, email, pwd string, isAdmin bool) (Staff, error) {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	s, err := svc.repo.GetStaff(ctx, GetFilter{UsernameOrEmail: []string{uname, email}})
	if err != nil {
		if err != ErrNotFound {
			return Staff{}, err
		}
		s = Staff{Username: uname, Email: email, CreatedAt: time.Now().UTC()}
	}
	s.IsAdmin = isAdmin
	s.SetActive(true)
	s.UpdatedAt = time.Now().UTC()
	if err := s.SetPassword(pwd); err != nil {
		return Staff{}, err
	}
	if s.ID == "" {
		return svc.repo.CreateStaff(ctx, s)
	}
	return svc.repo.UpdateStaff(ctx, s)
}
