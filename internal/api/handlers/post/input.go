package post

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"Quill/internal/core/posts"
)

// postInput is the body shared by publish, save and update.
// Fields an operation does not use are ignored.
type postInput struct {
	IsPublished *bool        `json:"is_published,omitempty"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	ID          posts.PostID `json:"id"`
}

// DecodeForm fills the input from a form-encoded body
func (in *postInput) DecodeForm(form url.Values) error {
	in.Title = form.Get("title")
	in.Content = form.Get("content")

	id, err := posts.ParsePostID(form.Get("id"))
	if err != nil {
		return err
	}
	in.ID = id

	if raw := strings.TrimSpace(form.Get("is_published")); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid is_published %q", raw)
		}
		in.IsPublished = &published
	}
	return nil
}
