package class

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("class not found")
)

type (
	// Class is a school class/group.
	Class struct {
		ID        string    `json:"id"`
		SchoolID  string    `json:"school_id"`
		Name      string    `json:"name"`
		Code      string    `json:"code,omitempty"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
	}
)
