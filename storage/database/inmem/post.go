package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/projectklase/comunika/core/post"
)

type postRepository struct {
	db *postTable
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(db *DB) *postRepository {
	return &postRepository{db: db.post}
}

func (r *postRepository) CreatePost(ctx context.Context, p post.Post) (post.Post, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.db.t[p.ID] = &p
	return p, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, p post.Post) (post.Post, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	old, ok := r.db.t[p.ID]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.db.t[p.ID] = &p
	return p, nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id string) (post.Post, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if p, ok := r.db.t[id]; ok {
		return *p, nil
	}
	return post.Post{}, post.ErrNotFound
}

func (r *postRepository) QueryAllPosts(ctx context.Context) ([]post.Post, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]post.Post, 0, len(r.db.t))
	for _, p := range r.db.t {
		res = append(res, *p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
