package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/projectklase/comunika/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

type staffRow struct {
	ID           string      `db:"id"`
	Name         null.String `db:"name"`
	Username     null.String `db:"username"`
	Email        null.String `db:"email"`
	IsAdmin      bool        `db:"is_admin"`
	IsActive     null.Bool   `db:"is_active"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

func (repo staffRepository) toRow(s staff.Staff) staffRow {
	return staffRow{
		ID:           s.ID,
		Name:         null.NewString(s.Name, s.Name != ""),
		Username:     null.NewString(s.Username, s.Username != ""),
		Email:        null.NewString(s.Email, s.Email != ""),
		IsAdmin:      s.IsAdmin,
		IsActive:     null.BoolFromPtr(s.IsActive),
		PasswordHash: null.BytesFrom(s.PasswordHash),
		CreatedAt:    null.NewTime(s.CreatedAt.UTC(), !s.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(s.UpdatedAt.UTC(), !s.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(s.LastLogin.UTC(), !s.LastLogin.IsZero()),
	}
}

func (repo staffRepository) fromRow(row staffRow) staff.Staff {
	return staff.Staff{
		ID:           row.ID,
		Name:         row.Name.String,
		Username:     row.Username.String,
		Email:        row.Email.String,
		IsAdmin:      row.IsAdmin,
		IsActive:     row.IsActive.Ptr(),
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
		LastLogin:    row.LastLogin.Time,
	}
}

func (repo staffRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return staff.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const staffColumns = `id, name, username, email, is_admin, is_active, password_hash, created_at, updated_at, last_login`

func (repo staffRepository) CreateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	s.ID = uuid.New().String()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	row := repo.toRow(s)

	query := `
	INSERT INTO staff (` + staffColumns + `)
	VALUES (:id, :name, :username, :email, :is_admin, :is_active, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return s, nil
}

func (repo staffRepository) UpdateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	s.UpdatedAt = time.Now().UTC()
	row := repo.toRow(s)

	query := `
	UPDATE staff
	SET name = :name, username = :username, email = :email, is_admin = :is_admin,
	    is_active = :is_active, password_hash = :password_hash,
	    updated_at = :updated_at, last_login = :last_login
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.Staff{}, staff.ErrNotFound
	}
	return s, nil
}

func (repo staffRepository) GetStaff(ctx context.Context, filter staff.GetFilter) (staff.Staff, error) {
	var row staffRow
	var err error

	switch {
	case filter.ID != "":
		if _, err = uuid.Parse(filter.ID); err != nil {
			return staff.Staff{}, staff.ErrNotFound
		}
		query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
		err = repo.db.GetContext(ctx, &row, query, filter.ID)
	case filter.Username != "":
		query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`
		err = repo.db.GetContext(ctx, &row, query, filter.Username)
	case filter.Email != "":
		query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(email) = lower($1)`
		err = repo.db.GetContext(ctx, &row, query, filter.Email)
	case filter.UsernameOrEmail != nil:
		var email string
		uname := filter.UsernameOrEmail[0]
		if len(filter.UsernameOrEmail) == 2 {
			email = filter.UsernameOrEmail[1]
		}
		if email == "" {
			email = uname
		} else if uname == "" {
			uname = email
		}
		query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1 OR lower(email) = lower($2)`
		err = repo.db.GetContext(ctx, &row, query, uname, email)
	default:
		return staff.Staff{}, staff.ErrNotFound
	}

	if err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "finding staff")
	}
	return repo.fromRow(row), nil
}
