package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/projectklase/comunika/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) *classRepository {
	return &classRepository{db: db}
}

type classRow struct {
	ID        string      `db:"id"`
	SchoolID  string      `db:"school_id"`
	Name      string      `db:"name"`
	Code      null.String `db:"code"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (repo classRepository) toRow(cls class.Class) classRow {
	return classRow{
		ID:        cls.ID,
		SchoolID:  cls.SchoolID,
		Name:      cls.Name,
		Code:      null.NewString(cls.Code, cls.Code != ""),
		CreatedAt: null.NewTime(cls.CreatedAt.UTC(), !cls.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(cls.UpdatedAt.UTC(), !cls.UpdatedAt.IsZero()),
	}
}

func (repo classRepository) fromRow(row classRow) class.Class {
	return class.Class{
		ID:        row.ID,
		SchoolID:  row.SchoolID,
		Name:      row.Name,
		Code:      row.Code.String,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo classRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return class.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.New().String()
	now := time.Now().UTC()
	cls.CreatedAt, cls.UpdatedAt = now, now
	row := repo.toRow(cls)

	query := `
	INSERT INTO class (id, school_id, name, code, created_at, updated_at)
	VALUES (:id, :school_id, :name, :code, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.UpdatedAt = time.Now().UTC()
	row := repo.toRow(cls)

	query := `
	UPDATE class SET name = :name, code = :code, updated_at = :updated_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return cls, nil
}

func (repo classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	if _, err := uuid.Parse(id); err != nil {
		return class.Class{}, class.ErrNotFound
	}
	var row classRow
	query := `SELECT id, school_id, name, code, created_at, updated_at FROM class WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return class.Class{}, repo.trapNoRowsErr(err, "finding class by ID")
	}
	return repo.fromRow(row), nil
}

func (repo classRepository) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	var rows []classRow
	query := `SELECT id, school_id, name, code, created_at, updated_at FROM class ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]class.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, repo.fromRow(row))
	}
	return classes, nil
}
