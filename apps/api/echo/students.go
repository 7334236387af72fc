package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projectklase/comunika/core"
	"github.com/projectklase/comunika/core/student"
)

type studentApi struct {
	repo    student.Repository
	checker *student.Checker
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo student.Repository, logger core.Logger) {
	api := studentApi{
		repo:    repo,
		checker: student.NewChecker(repo, logger),
	}

	sg := g.Group("/students", jwt)
	sg.POST("/check-duplicates", api.checkDuplicates)
	sg.POST("/validate", api.validate)
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
}

type (
	// StudentWriteRequest is a submitted record plus the explicit confirmation
	// that known similar records are not duplicates.
	StudentWriteRequest struct {
		student.Draft
		Enrollment     string `json:"enrollment_number,omitempty"`
		ConfirmSimilar bool   `json:"confirm_similar,omitempty"`
	}
)

func (api *studentApi) checkDuplicates(ctx echo.Context) error {
	var cand student.Candidate
	if err := ctx.Bind(&cand); err != nil {
		return errors.Wrap(err, "binding to Candidate")
	}
	excludeID := ctx.QueryParam("exclude_id")

	res := api.checker.CheckDuplicates(ctx.Request().Context(), cand, excludeID)
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) validate(ctx echo.Context) error {
	var draft student.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	return ctx.JSON(http.StatusOK, student.ValidateDraft(draft))
}

func (api *studentApi) create(ctx echo.Context) error {
	return api.write(ctx, "")
}

func (api *studentApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.repo.GetStudentByID(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	return api.write(ctx, id)
}

// write runs the full submit pipeline: sanitize, validate, duplicate-check,
// persist. Blocking issues always stop the write; similarities stop it until
// the client re-submits with confirm_similar.
func (api *studentApi) write(ctx echo.Context, id string) error {
	var data StudentWriteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentWriteRequest")
	}
	data.ID = id

	res := student.ValidateDraft(data.Draft)
	if !res.Valid {
		return ctx.JSON(http.StatusBadRequest, res)
	}

	dup := api.checker.CheckDuplicates(ctx.Request().Context(), api.candidate(res.Draft, data.Enrollment), id)
	if dup.HasBlocking || (dup.HasSimilarities && !data.ConfirmSimilar) {
		return ctx.JSON(http.StatusConflict, dup)
	}

	st := student.Student{
		ID:         id,
		SchoolID:   res.Draft.SchoolID,
		Name:       res.Draft.Name,
		Email:      res.Draft.Email,
		Enrollment: data.Enrollment,
		Phones:     res.Draft.Phones,
		Notes:      res.Draft.Notes,
	}
	if res.Draft.BirthDate != "" {
		if bd, ok := core.ParseDate(res.Draft.BirthDate); ok {
			st.BirthDate = bd
		}
	}

	var err error
	if id == "" {
		st, err = api.repo.CreateStudent(ctx.Request().Context(), st)
		if err != nil {
			return errors.Wrap(err, "creating student")
		}
		return ctx.JSON(http.StatusCreated, st)
	}
	st, err = api.repo.UpdateStudent(ctx.Request().Context(), st)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

// candidate projects a sanitized draft onto the duplicate checker's input.
func (api *studentApi) candidate(d student.Draft, enrollment string) student.Candidate {
	cand := student.Candidate{
		SchoolID:   d.SchoolID,
		Enrollment: enrollment,
		Name:       d.Name,
		BirthDate:  d.BirthDate,
		Email:      d.Email,
	}
	if len(d.Phones) > 0 {
		cand.Phone = d.Phones[0]
	}
	if d.Notes != "" {
		parsed := student.ParseNotes(d.Notes)
		cand.CPF = parsed.Document
		cand.Address = parsed.Address
	}
	return cand
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.repo.QueryAllStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.repo.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}
