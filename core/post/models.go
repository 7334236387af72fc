package post

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("post not found")
)

type (
	// Post is a feed entry: an announcement, an assignment with a deadline,
	// or a calendar event with a start/end window.
	Post struct {
		ID            string    `json:"id"`
		SchoolID      string    `json:"school_id"`
		Title         string    `json:"title"`
		Body          string    `json:"body,omitempty"`
		DueAt         time.Time `json:"due_at,omitempty"`
		PublishAt     time.Time `json:"publish_at,omitempty"`
		EventStartAt  time.Time `json:"event_start_at,omitempty"`
		EventEndAt    time.Time `json:"event_end_at,omitempty"`
		EventLocation string    `json:"event_location,omitempty"`
		CreatedAt     time.Time `json:"created_at"` // UTC
		UpdatedAt     time.Time `json:"updated_at"` // UTC
	}

	Repository interface {
		CreatePost(ctx context.Context, p Post) (Post, error)
		UpdatePost(ctx context.Context, p Post) (Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		QueryAllPosts(ctx context.Context) ([]Post, error)
	}
)
