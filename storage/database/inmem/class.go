package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/projectklase/comunika/core/class"
)

type classRepository struct {
	db *classTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{db: db.class}
}

func (r *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	cls.ID = uuid.New().String()
	now := time.Now().UTC()
	cls.CreatedAt, cls.UpdatedAt = now, now
	r.db.t[cls.ID] = &cls
	return cls, nil
}

func (r *classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	old, ok := r.db.t[cls.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	cls.CreatedAt = old.CreatedAt
	cls.UpdatedAt = time.Now().UTC()
	r.db.t[cls.ID] = &cls
	return cls, nil
}

func (r *classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if cls, ok := r.db.t[id]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (r *classRepository) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]class.Class, 0, len(r.db.t))
	for _, cls := range r.db.t {
		res = append(res, *cls)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
