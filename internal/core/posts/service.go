package posts

import (
	"context"
	"log"
	"time"
)

type postService struct {
	public Repository // restricted key, public reads
	admin  Repository // privileged key, writes and dashboard
	now    func() time.Time
}

// ServiceOption configures the post service
type ServiceOption func(*postService)

// WithClock overrides the time source used for updated_at
func WithClock(now func() time.Time) ServiceOption {
	return func(s *postService) {
		s.now = now
	}
}

// NewPostService creates a post service.
// public serves the unauthenticated read paths; admin serves everything else.
// Passing the same repository for both is fine when only one key is configured.
func NewPostService(public, admin Repository, opts ...ServiceOption) Service {
	s := &postService{
		public: public,
		admin:  admin,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPublished returns published posts, newest first
func (s *postService) ListPublished(ctx context.Context) ([]*Post, error) {
	result, err := s.public.ListPublished(ctx)
	if err != nil {
		return nil, asUpstream("list published posts", err)
	}
	return nonNil(result), nil
}

// ListAll returns all posts for the dashboard, newest first
func (s *postService) ListAll(ctx context.Context) ([]*Post, error) {
	result, err := s.admin.ListAll(ctx)
	if err != nil {
		return nil, asUpstream("list all posts", err)
	}
	return nonNil(result), nil
}

// GetByID returns the post with the given id, or an empty slice
func (s *postService) GetByID(ctx context.Context, id int64) ([]*Post, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	result, err := s.public.GetByID(ctx, id)
	if err != nil {
		return nil, asUpstream("get post", err)
	}
	return nonNil(result), nil
}

// Publish creates a post that is visible immediately
func (s *postService) Publish(ctx context.Context, req PublishPostRequest) error {
	verr := &ValidationError{}
	title, content := cleanText(req.Title, req.Content, verr)
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	err := s.admin.Create(ctx, NewPost{Title: title, Content: content, IsPublished: true})
	if err != nil {
		return asUpstream("create post", err)
	}
	return nil
}

// Save inserts a draft or updates the existing post.
// Existence is checked with a separate read before the write, so two
// concurrent saves of the same id can race. With a single admin this is accepted.
func (s *postService) Save(ctx context.Context, req SavePostRequest) (SaveOutcome, error) {
	verr := &ValidationError{}
	title, content := cleanText(req.Title, req.Content, verr)
	if err := verr.ErrOrNil(); err != nil {
		return 0, err
	}

	if req.ID.Valid {
		existing, err := s.admin.GetByID(ctx, req.ID.Value)
		if err != nil {
			return 0, asUpstream("look up post", err)
		}

		if len(existing) > 0 {
			update := PostUpdate{
				Title:       title,
				Content:     content,
				IsPublished: req.IsPublished,
				UpdatedAt:   s.now().UTC(),
			}
			if err := s.admin.Update(ctx, req.ID.Value, update); err != nil {
				return 0, asUpstream("update post", err)
			}
			return SaveUpdated, nil
		}

		log.Printf("Save: post %d not found, inserting as new draft", req.ID.Value)
	}

	if err := s.admin.Create(ctx, NewPost{Title: title, Content: content, IsPublished: false}); err != nil {
		return 0, asUpstream("create draft", err)
	}
	return SaveCreated, nil
}

// Update rewrites title, content and optionally the publication flag
func (s *postService) Update(ctx context.Context, req UpdatePostRequest) error {
	verr := &ValidationError{}
	if req.ID <= 0 {
		verr.Add("id", msgInvalidID)
	}
	title, content := cleanText(req.Title, req.Content, verr)
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	update := PostUpdate{
		Title:       title,
		Content:     content,
		IsPublished: req.IsPublished,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.admin.Update(ctx, req.ID, update); err != nil {
		return asUpstream("update post", err)
	}
	return nil
}

// Delete removes a post
func (s *postService) Delete(ctx context.Context, id int64) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	if err := s.admin.Delete(ctx, id); err != nil {
		return asUpstream("delete post", err)
	}
	return nil
}

// asUpstream guarantees repository failures reach handlers as *UpstreamError
func asUpstream(op string, err error) error {
	if IsUpstreamError(err) {
		return err
	}
	return NewUpstreamError(op, err)
}

// nonNil makes empty results encode as [] rather than null
func nonNil(result []*Post) []*Post {
	if result == nil {
		return []*Post{}
	}
	return result
}
