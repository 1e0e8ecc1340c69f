package posts

import "context"

// Service defines the business logic interface for posts
// Flow: Validate -> Repository -> map outcome
type Service interface {
	// ListPublished returns published posts, newest first
	ListPublished(ctx context.Context) ([]*Post, error)

	// ListAll returns every post regardless of publication state, newest first
	// Dashboard view; callers must have verified admin access
	ListAll(ctx context.Context) ([]*Post, error)

	// GetByID returns a zero-or-one element slice; empty means not found
	GetByID(ctx context.Context, id int64) ([]*Post, error)

	// Publish creates a new post that is published immediately
	Publish(ctx context.Context, req PublishPostRequest) error

	// Save inserts a draft when no row with req.ID exists, otherwise updates it
	Save(ctx context.Context, req SavePostRequest) (SaveOutcome, error)

	// Update rewrites the mutable fields of an existing post
	Update(ctx context.Context, req UpdatePostRequest) error

	// Delete removes a post
	Delete(ctx context.Context, id int64) error
}

// Repository defines the data access interface for posts
// Each method is a single call against the data service; failures are *UpstreamError
type Repository interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	GetByID(ctx context.Context, id int64) ([]*Post, error)
	Create(ctx context.Context, post NewPost) error
	Update(ctx context.Context, id int64, update PostUpdate) error
	Delete(ctx context.Context, id int64) error
}
