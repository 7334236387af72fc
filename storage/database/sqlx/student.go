package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/projectklase/comunika/core"
	"github.com/projectklase/comunika/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID         string         `db:"id"`
	SchoolID   string         `db:"school_id"`
	Name       string         `db:"name"`
	Email      null.String    `db:"email"`
	Enrollment null.String    `db:"enrollment"`
	BirthDate  null.Time      `db:"birth_date"`
	Phones     pq.StringArray `db:"phones"`
	Notes      null.String    `db:"notes"`
	CreatedAt  null.Time      `db:"created_at"`
	UpdatedAt  null.Time      `db:"updated_at"`
}

func (repo studentRepository) toRow(st student.Student) studentRow {
	return studentRow{
		ID:         st.ID,
		SchoolID:   st.SchoolID,
		Name:       st.Name,
		Email:      null.NewString(st.Email, st.Email != ""),
		Enrollment: null.NewString(st.Enrollment, st.Enrollment != ""),
		BirthDate:  null.NewTime(st.BirthDate, !st.BirthDate.IsZero()),
		Phones:     st.Phones,
		Notes:      null.NewString(st.Notes, st.Notes != ""),
		CreatedAt:  null.NewTime(st.CreatedAt.UTC(), !st.CreatedAt.IsZero()),
		UpdatedAt:  null.NewTime(st.UpdatedAt.UTC(), !st.UpdatedAt.IsZero()),
	}
}

func (repo studentRepository) fromRow(row studentRow) student.Student {
	return student.Student{
		ID:         row.ID,
		SchoolID:   row.SchoolID,
		Name:       row.Name,
		Email:      row.Email.String,
		Enrollment: row.Enrollment.String,
		BirthDate:  row.BirthDate.Time,
		Phones:     row.Phones,
		Notes:      row.Notes.String,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

func (repo studentRepository) fromRows(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.fromRow(row))
	}
	return students
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const studentColumns = `id, school_id, name, email, enrollment, birth_date, phones, notes, created_at, updated_at`

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	row := repo.toRow(st)

	query := `
	INSERT INTO student (` + studentColumns + `)
	VALUES (:id, :school_id, :name, :email, :enrollment, :birth_date, :phones, :notes, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.UpdatedAt = time.Now().UTC()
	row := repo.toRow(st)

	query := `
	UPDATE student
	SET name = :name, email = :email, enrollment = :enrollment, birth_date = :birth_date,
	    phones = :phones, notes = :notes, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	query := `SELECT ` + studentColumns + ` FROM student WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	st := repo.fromRow(row)
	guardians, err := repo.FindGuardiansByStudentIDs(ctx, []string{st.ID})
	if err != nil {
		return student.Student{}, err
	}
	st.Guardians = guardians[st.ID]
	return st, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	query := `SELECT ` + studentColumns + ` FROM student ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return repo.fromRows(rows), nil
}

// excludeClause skips excludeID when set; "" keeps every row.
const excludeClause = `($3 = '' OR id::text <> $3)`

func (repo studentRepository) FindByEnrollment(ctx context.Context, schoolID, enrollment, excludeID string) ([]student.Student, error) {
	var rows []studentRow
	query := `
	SELECT ` + studentColumns + ` FROM student
	WHERE school_id = $1 AND enrollment = $2 AND ` + excludeClause + `
	ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID, enrollment, excludeID); err != nil {
		return nil, errors.Wrap(err, "finding students by enrollment")
	}
	return repo.fromRows(rows), nil
}

func (repo studentRepository) FindByEmail(ctx context.Context, schoolID, email, excludeID string) ([]student.Student, error) {
	var rows []studentRow
	query := `
	SELECT ` + studentColumns + ` FROM student
	WHERE school_id = $1 AND lower(email) = lower($2) AND ` + excludeClause + `
	ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID, email, excludeID); err != nil {
		return nil, errors.Wrap(err, "finding students by email")
	}
	return repo.fromRows(rows), nil
}

func (repo studentRepository) FindByNameCI(ctx context.Context, schoolID, name, excludeID string) ([]student.Student, error) {
	var rows []studentRow
	query := `
	SELECT ` + studentColumns + ` FROM student
	WHERE school_id = $1 AND lower(name) = lower($2) AND ` + excludeClause + `
	ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID, name, excludeID); err != nil {
		return nil, errors.Wrap(err, "finding students by name")
	}
	return repo.fromRows(rows), nil
}

// FindByDigitDocument matches CPF digits buried in free-form notes. The blob
// is semi-structured so the comparison happens here, not in SQL; only rows
// with a non-empty notes column are pulled.
func (repo studentRepository) FindByDigitDocument(ctx context.Context, schoolID, digits, excludeID string) ([]student.Student, error) {
	var rows []studentRow
	query := `
	SELECT ` + studentColumns + ` FROM student
	WHERE school_id = $1 AND notes IS NOT NULL AND notes <> '' AND ($2 = '' OR id::text <> $2)
	ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID, excludeID); err != nil {
		return nil, errors.Wrap(err, "finding students by document")
	}

	var matches []student.Student
	for _, row := range rows {
		parsed := student.ParseNotes(row.Notes.String)
		if parsed.Document != "" && core.DigitsOnly(parsed.Document) == digits {
			matches = append(matches, repo.fromRow(row))
		}
	}
	return matches, nil
}

func (repo studentRepository) FindAllInSchool(ctx context.Context, schoolID, excludeID string) ([]student.Student, error) {
	var rows []studentRow
	query := `
	SELECT ` + studentColumns + ` FROM student
	WHERE school_id = $1 AND ($2 = '' OR id::text <> $2)
	ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, schoolID, excludeID); err != nil {
		return nil, errors.Wrap(err, "finding students in school")
	}
	return repo.fromRows(rows), nil
}

type guardianRow struct {
	ID        string      `db:"id"`
	StudentID string      `db:"student_id"`
	Name      string      `db:"name"`
	Relation  null.String `db:"relation"`
	Phone     null.String `db:"phone"`
	Email     null.String `db:"email"`
	IsPrimary bool        `db:"is_primary"`
}

func (repo studentRepository) FindGuardiansByStudentIDs(ctx context.Context, ids []string) (map[string][]student.Guardian, error) {
	byStudent := make(map[string][]student.Guardian, len(ids))
	if len(ids) == 0 {
		return byStudent, nil
	}

	var rows []guardianRow
	query := `
	SELECT id, student_id, name, relation, phone, email, is_primary
	FROM guardian WHERE student_id = ANY($1) ORDER BY student_id, name`
	if err := repo.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "finding guardians")
	}

	for _, row := range rows {
		byStudent[row.StudentID] = append(byStudent[row.StudentID], student.Guardian{
			ID:        row.ID,
			StudentID: row.StudentID,
			Name:      row.Name,
			Relation:  row.Relation.String,
			Phone:     row.Phone.String,
			Email:     row.Email.String,
			IsPrimary: row.IsPrimary,
		})
	}
	return byStudent, nil
}
