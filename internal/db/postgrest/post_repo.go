package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Quill/internal/core/posts"
)

const (
	postsTable = "posts"

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 4 * 1024
)

type postgrestPostRepo struct {
	client   *http.Client
	tableURL string
	key      string
}

// NewPostRepository creates a posts repository backed by a hosted PostgREST
// endpoint (e.g. Supabase). projectURL is the project root; requests go to
// {projectURL}/rest/v1/posts authenticated with key.
// The privilege level of the repository is the privilege level of key.
func NewPostRepository(projectURL, key string, client *http.Client) posts.Repository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &postgrestPostRepo{
		client:   client,
		tableURL: projectURL + "/rest/v1/" + postsTable,
		key:      key,
	}
}

// ListPublished returns published posts ordered by created_at descending
func (r *postgrestPostRepo) ListPublished(ctx context.Context) ([]*posts.Post, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_published", "eq.true")
	query.Set("order", "created_at.desc")

	var result []*posts.Post
	if err := r.do(ctx, http.MethodGet, query, nil, &result); err != nil {
		return nil, posts.NewUpstreamError("list published posts", err)
	}
	return result, nil
}

// ListAll returns every post ordered by created_at descending
func (r *postgrestPostRepo) ListAll(ctx context.Context) ([]*posts.Post, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")

	var result []*posts.Post
	if err := r.do(ctx, http.MethodGet, query, nil, &result); err != nil {
		return nil, posts.NewUpstreamError("list all posts", err)
	}
	return result, nil
}

// GetByID returns a zero-or-one element slice
func (r *postgrestPostRepo) GetByID(ctx context.Context, id int64) ([]*posts.Post, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", idFilter(id))

	var result []*posts.Post
	if err := r.do(ctx, http.MethodGet, query, nil, &result); err != nil {
		return nil, posts.NewUpstreamError("get post", err)
	}
	return result, nil
}

// Create inserts a new row; id and created_at come from the table defaults
func (r *postgrestPostRepo) Create(ctx context.Context, post posts.NewPost) error {
	if err := r.do(ctx, http.MethodPost, nil, post, nil); err != nil {
		return posts.NewUpstreamError("create post", err)
	}
	return nil
}

// Update patches the row with the given id
func (r *postgrestPostRepo) Update(ctx context.Context, id int64, update posts.PostUpdate) error {
	query := url.Values{}
	query.Set("id", idFilter(id))

	if err := r.do(ctx, http.MethodPatch, query, update, nil); err != nil {
		return posts.NewUpstreamError("update post", err)
	}
	return nil
}

// Delete removes the row with the given id
func (r *postgrestPostRepo) Delete(ctx context.Context, id int64) error {
	query := url.Values{}
	query.Set("id", idFilter(id))

	if err := r.do(ctx, http.MethodDelete, query, nil, nil); err != nil {
		return posts.NewUpstreamError("delete post", err)
	}
	return nil
}

// do performs one request against the posts table.
// body is JSON-encoded when non-nil; out is decoded from the response when non-nil.
func (r *postgrestPostRepo) do(ctx context.Context, method string, query url.Values, body, out interface{}) error {
	endpoint := r.tableURL
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Writes do not need the affected rows echoed back
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to data service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode data service response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, apiErr); err != nil {
			apiErr.Message = string(raw)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func idFilter(id int64) string {
	return "eq." + strconv.FormatInt(id, 10)
}
