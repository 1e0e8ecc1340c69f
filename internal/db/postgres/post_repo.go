package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"Quill/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

const selectPostColumns = `
	SELECT id, title, content, is_published, created_at, updated_at
	FROM posts
`

// ListPublished returns published posts, newest first
func (r *postgresPostRepo) ListPublished(ctx context.Context) ([]*posts.Post, error) {
	query := selectPostColumns + `
		WHERE is_published = TRUE
		ORDER BY created_at DESC
	`

	result, err := r.queryPosts(ctx, query)
	if err != nil {
		return nil, posts.NewUpstreamError("list published posts", err)
	}
	return result, nil
}

// ListAll returns every post, newest first
func (r *postgresPostRepo) ListAll(ctx context.Context) ([]*posts.Post, error) {
	query := selectPostColumns + `
		ORDER BY created_at DESC
	`

	result, err := r.queryPosts(ctx, query)
	if err != nil {
		return nil, posts.NewUpstreamError("list all posts", err)
	}
	return result, nil
}

// GetByID returns a zero-or-one element slice
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) ([]*posts.Post, error) {
	query := selectPostColumns + `
		WHERE id = $1
	`

	result, err := r.queryPosts(ctx, query, id)
	if err != nil {
		return nil, posts.NewUpstreamError("get post", err)
	}
	return result, nil
}

// Create inserts a new post; id and created_at come from column defaults
func (r *postgresPostRepo) Create(ctx context.Context, post posts.NewPost) error {
	query := `
		INSERT INTO posts (title, content, is_published, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.IsPublished); err != nil {
		return posts.NewUpstreamError("create post", describe(err))
	}
	return nil
}

// Update rewrites title and content, stamps updated_at, and sets
// is_published only when provided
func (r *postgresPostRepo) Update(ctx context.Context, id int64, update posts.PostUpdate) error {
	query := `
		UPDATE posts
		SET title = $2,
			content = $3,
			updated_at = $4,
			is_published = COALESCE($5, is_published)
		WHERE id = $1
	`

	var published sql.NullBool
	if update.IsPublished != nil {
		published = sql.NullBool{Bool: *update.IsPublished, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, id, update.Title, update.Content, update.UpdatedAt, published)
	if err != nil {
		return posts.NewUpstreamError("update post", describe(err))
	}
	return nil
}

// Delete removes the post with the given id
func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return posts.NewUpstreamError("delete post", describe(err))
	}
	return nil
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, describe(err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.Post{}
	for rows.Next() {
		var post posts.Post
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.IsPublished,
			&post.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		if updatedAt.Valid {
			t := updatedAt.Time
			post.UpdatedAt = &t
		}
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

// describe adds the Postgres error code and detail to driver errors
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Detail != "" {
			return fmt.Errorf("postgres %s (%s): %s: %w", pqErr.Code, pqErr.Code.Name(), pqErr.Detail, err)
		}
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
	}
	return err
}
