package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/projectklase/comunika/core/post"
)

type postRepository struct {
	db *sqlx.DB
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(db *sqlx.DB) *postRepository {
	return &postRepository{db: db}
}

type postRow struct {
	ID            string      `db:"id"`
	SchoolID      string      `db:"school_id"`
	Title         string      `db:"title"`
	Body          null.String `db:"body"`
	DueAt         null.Time   `db:"due_at"`
	PublishAt     null.Time   `db:"publish_at"`
	EventStartAt  null.Time   `db:"event_start_at"`
	EventEndAt    null.Time   `db:"event_end_at"`
	EventLocation null.String `db:"event_location"`
	CreatedAt     null.Time   `db:"created_at"`
	UpdatedAt     null.Time   `db:"updated_at"`
}

func (repo postRepository) toRow(p post.Post) postRow {
	return postRow{
		ID:            p.ID,
		SchoolID:      p.SchoolID,
		Title:         p.Title,
		Body:          null.NewString(p.Body, p.Body != ""),
		DueAt:         null.NewTime(p.DueAt, !p.DueAt.IsZero()),
		PublishAt:     null.NewTime(p.PublishAt, !p.PublishAt.IsZero()),
		EventStartAt:  null.NewTime(p.EventStartAt, !p.EventStartAt.IsZero()),
		EventEndAt:    null.NewTime(p.EventEndAt, !p.EventEndAt.IsZero()),
		EventLocation: null.NewString(p.EventLocation, p.EventLocation != ""),
		CreatedAt:     null.NewTime(p.CreatedAt.UTC(), !p.CreatedAt.IsZero()),
		UpdatedAt:     null.NewTime(p.UpdatedAt.UTC(), !p.UpdatedAt.IsZero()),
	}
}

func (repo postRepository) fromRow(row postRow) post.Post {
	return post.Post{
		ID:            row.ID,
		SchoolID:      row.SchoolID,
		Title:         row.Title,
		Body:          row.Body.String,
		DueAt:         row.DueAt.Time,
		PublishAt:     row.PublishAt.Time,
		EventStartAt:  row.EventStartAt.Time,
		EventEndAt:    row.EventEndAt.Time,
		EventLocation: row.EventLocation.String,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func (repo postRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return post.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const postColumns = `id, school_id, title, body, due_at, publish_at, event_start_at, event_end_at, event_location, created_at, updated_at`

func (repo postRepository) CreatePost(ctx context.Context, p post.Post) (post.Post, error) {
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	row := repo.toRow(p)

	query := `
	INSERT INTO post (` + postColumns + `)
	VALUES (:id, :school_id, :title, :body, :due_at, :publish_at, :event_start_at, :event_end_at, :event_location, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return post.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo postRepository) UpdatePost(ctx context.Context, p post.Post) (post.Post, error) {
	p.UpdatedAt = time.Now().UTC()
	row := repo.toRow(p)

	query := `
	UPDATE post
	SET title = :title, body = :body, due_at = :due_at, publish_at = :publish_at,
	    event_start_at = :event_start_at, event_end_at = :event_end_at,
	    event_location = :event_location, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (repo postRepository) GetPostByID(ctx context.Context, id string) (post.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return post.Post{}, post.ErrNotFound
	}
	var row postRow
	query := `SELECT ` + postColumns + ` FROM post WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return post.Post{}, repo.trapNoRowsErr(err, "finding post by ID")
	}
	return repo.fromRow(row), nil
}

func (repo postRepository) QueryAllPosts(ctx context.Context) ([]post.Post, error) {
	var rows []postRow
	query := `SELECT ` + postColumns + ` FROM post ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, repo.fromRow(row))
	}
	return posts, nil
}
