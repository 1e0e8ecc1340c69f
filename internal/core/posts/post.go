package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Post is a row of the posts table owned by the data service.
// The service holds no local copy; every read goes upstream.
type Post struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ID          int64      `json:"id"`
	IsPublished bool       `json:"is_published"`
}

// NewPost is the set of columns written on insert.
// id and created_at are assigned by the data service.
type NewPost struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

// PostUpdate is the set of columns written on update.
// IsPublished is left untouched when nil.
type PostUpdate struct {
	UpdatedAt   time.Time `json:"updated_at"`
	IsPublished *bool     `json:"is_published,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
}

// PostID is an optional post identifier as sent by clients.
// It accepts a JSON number, a numeric string, or null.
type PostID struct {
	Value int64
	Valid bool
}

// NewPostID returns a set PostID.
func NewPostID(id int64) PostID {
	return PostID{Value: id, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = PostID{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	parsed, err := ParsePostID(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PostID) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(p.Value, 10)), nil
}

// ParsePostID parses a client-supplied id. Blank input yields an unset id.
func ParsePostID(raw string) (PostID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return PostID{}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return PostID{}, fmt.Errorf("invalid post id %q", raw)
	}
	return NewPostID(id), nil
}

// PublishPostRequest is the input of the publish operation.
type PublishPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SavePostRequest is the input of the save operation.
// A missing id creates a draft; a present id updates the existing row.
type SavePostRequest struct {
	IsPublished *bool  `json:"is_published,omitempty"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ID          PostID `json:"id"`
}

// UpdatePostRequest is the input of the admin update operation.
type UpdatePostRequest struct {
	IsPublished *bool  `json:"is_published,omitempty"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ID          int64  `json:"-"`
}

// SaveOutcome tells whether a save created a new row or updated one.
type SaveOutcome int

const (
	// SaveCreated means a new draft row was inserted
	SaveCreated SaveOutcome = iota + 1
	// SaveUpdated means an existing row was updated
	SaveUpdated
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveCreated:
		return "created"
	case SaveUpdated:
		return "updated"
	default:
		return "unknown"
	}
}
