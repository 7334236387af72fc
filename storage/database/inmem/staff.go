package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectklase/comunika/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db.staff}
}

func (r *staffRepository) CreateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	s.ID = uuid.New().String()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.db.t[s.ID] = &s
	return s, nil
}

func (r *staffRepository) UpdateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	old, ok := r.db.t[s.ID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	s.CreatedAt = old.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	r.db.t[s.ID] = &s
	return s, nil
}

func (r *staffRepository) GetStaff(ctx context.Context, filter staff.GetFilter) (staff.Staff, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if filter.ID != "" {
		if s, ok := r.db.t[filter.ID]; ok {
			return *s, nil
		}
		return staff.Staff{}, staff.ErrNotFound
	}

	for _, s := range r.db.t {
		switch {
		case filter.Username != "":
			if s.Username == filter.Username {
				return *s, nil
			}
		case filter.Email != "":
			if strings.EqualFold(s.Email, filter.Email) {
				return *s, nil
			}
		case filter.UsernameOrEmail != nil:
			for _, val := range filter.UsernameOrEmail {
				if val != "" && (s.Username == val || strings.EqualFold(s.Email, val)) {
					return *s, nil
				}
			}
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}
