package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/auth"
	"Quill/internal/core/admin"
	"Quill/internal/core/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminUser = "admin"
	testAdminPass = "correct-horse"
	testSecret    = "router-test-secret"
)

// memoryRepo is an in-memory posts.Repository that counts calls
type memoryRepo struct {
	failWith error
	now      time.Time
	rows     map[int64]*posts.Post
	calls    int
	nextID   int64
	mu       sync.Mutex
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rows:   make(map[int64]*posts.Post),
		nextID: 1,
		now:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) begin(op string) error {
	m.calls++
	if m.failWith != nil {
		return posts.NewUpstreamError(op, m.failWith)
	}
	return nil
}

func (m *memoryRepo) sorted(filter func(*posts.Post) bool) []*posts.Post {
	out := []*posts.Post{}
	for _, p := range m.rows {
		if filter(p) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryRepo) ListPublished(ctx context.Context) ([]*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list published posts"); err != nil {
		return nil, err
	}
	return m.sorted(func(p *posts.Post) bool { return p.IsPublished }), nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list all posts"); err != nil {
		return nil, err
	}
	return m.sorted(func(p *posts.Post) bool { return true }), nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id int64) ([]*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get post"); err != nil {
		return nil, err
	}
	return m.sorted(func(p *posts.Post) bool { return p.ID == id }), nil
}

func (m *memoryRepo) Create(ctx context.Context, post posts.NewPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("create post"); err != nil {
		return err
	}
	m.now = m.now.Add(time.Minute)
	m.rows[m.nextID] = &posts.Post{
		ID:          m.nextID,
		Title:       post.Title,
		Content:     post.Content,
		IsPublished: post.IsPublished,
		CreatedAt:   m.now,
	}
	m.nextID++
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, update posts.PostUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update post"); err != nil {
		return err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	row.Title = update.Title
	row.Content = update.Content
	stamp := update.UpdatedAt
	row.UpdatedAt = &stamp
	if update.IsPublished != nil {
		row.IsPublished = *update.IsPublished
	}
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete post"); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type testEnv struct {
	router http.Handler
	repo   *memoryRepo
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T, mutate func(cfg *RouterConfig)) *testEnv {
	t.Helper()
	repo := newMemoryRepo()
	tokens := auth.NewTokenService(testSecret)

	cfg := RouterConfig{
		PostService:    posts.NewPostService(repo, repo),
		AdminService:   admin.NewAdminService(testAdminUser, testAdminPass, tokens),
		Auth:           middleware.NewAdminAuthMiddleware(tokens),
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return &testEnv{router: NewRouter(cfg), repo: repo, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.tokens.Issue()
	require.NoError(t, err)
	return token
}

func decodePosts(t *testing.T, w *httptest.ResponseRecorder) []posts.Post {
	t.Helper()
	var result []posts.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "body: %s", w.Body.String())
	return result
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func TestEndToEnd_LoginThenDashboard(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/post/publish",
		map[string]string{"title": "Published post", "content": "Visible to everyone"}, token).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/post/save",
		map[string]string{"title": "Draft post", "content": "Only for the admin"}, token).Code)

	login := env.do(t, http.MethodPost, "/admin",
		map[string]string{"username": testAdminUser, "password": testAdminPass}, "")
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var loginBody struct {
		ExpiresAt time.Time `json:"expires_at"`
		Message   string    `json:"message"`
		Token     string    `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginBody))
	assert.Equal(t, "Logged in!", loginBody.Message)

	var cookie *http.Cookie
	for _, c := range login.Result().Cookies() {
		if c.Name == middleware.TokenCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the token cookie")
	assert.Equal(t, loginBody.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	claims, err := env.tokens.Verify(cookie.Value)
	require.NoError(t, err)
	assert.True(t, claims.Data.IsAdmin)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	// Bearer header
	dashboard := env.do(t, http.MethodGet, "/dashboard", nil, cookie.Value)
	require.Equal(t, http.StatusOK, dashboard.Code)
	all := decodePosts(t, dashboard)
	require.Len(t, all, 2)
	assert.Equal(t, "Draft post", all[0].Title)
	assert.False(t, all[0].IsPublished)

	// Cookie
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("length rules give 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/admin", map[string]string{"username": "adm", "password": "short"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "ValidationError", body.Error)
		details, ok := body.Details.([]interface{})
		require.True(t, ok)
		assert.Len(t, details, 2)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("wrong password gives 401 without token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/admin", map[string]string{"username": testAdminUser, "password": "wrong-horse"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Wrong credentials", decodeError(t, w).Message)
		assert.Empty(t, w.Result().Cookies())
		assert.NotContains(t, w.Body.String(), "token\":")
	})

	t.Run("wrong username gives the same 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/admin", map[string]string{"username": "someone", "password": testAdminPass}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Wrong credentials", decodeError(t, w).Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "InvalidRequest", decodeError(t, w).Error)
	})
}

func TestLogin_FormEncoded(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"username": {testAdminUser}, "password": {testAdminPass}}
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogin_SigningFailureIs500(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) {
		cfg.AdminService = admin.NewAdminService(testAdminUser, testAdminPass, auth.NewTokenService(""))
	})

	w := env.do(t, http.MethodPost, "/admin", map[string]string{"username": testAdminUser, "password": testAdminPass}, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAdminRoutes_RequireValidToken(t *testing.T) {
	expired, _, err := auth.NewTokenService(testSecret, auth.WithClock(func() time.Time {
		return time.Now().Add(-48 * time.Hour)
	})).Issue()
	require.NoError(t, err)
	foreign, _, err := auth.NewTokenService("some-other-secret").Issue()
	require.NoError(t, err)

	routes := []struct {
		body   interface{}
		method string
		path   string
	}{
		{method: http.MethodPut, path: "/post/1", body: map[string]string{"title": "Valid title", "content": "Valid content"}},
		{method: http.MethodDelete, path: "/post/1"},
		{method: http.MethodGet, path: "/dashboard"},
		{method: http.MethodPost, path: "/post/publish", body: map[string]string{"title": "Valid title", "content": "Valid content"}},
		{method: http.MethodPost, path: "/post/save", body: map[string]string{"title": "Valid title", "content": "Valid content"}},
	}
	tokens := map[string]string{
		"no token":       "",
		"expired token":  expired,
		"foreign secret": foreign,
	}

	for _, route := range routes {
		for name, token := range tokens {
			t.Run(route.method+" "+route.path+" "+name, func(t *testing.T) {
				env := newTestEnv(t, nil)

				w := env.do(t, route.method, route.path, route.body, token)

				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Equal(t, "Unauthorized", decodeError(t, w).Error)
				assert.Zero(t, env.repo.callCount(), "repository must not be called")
			})
		}
	}
}

func TestAnonymousWrites(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) {
		cfg.AllowAnonymousWrites = true
	})

	w := env.do(t, http.MethodPost, "/post/publish", map[string]string{"title": "Anonymous", "content": "Allowed by config"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Update stays guarded
	w = env.do(t, http.MethodPut, "/post/1", map[string]string{"title": "Anonymous", "content": "Still guarded"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShortFieldsAre400WithoutRepositoryCall(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/post/publish"},
		{http.MethodPost, "/post/save"},
		{http.MethodPut, "/post/1"},
	}
	for _, c := range cases {
		for _, short := range []string{"", "abc", "   ab   "} {
			w := env.do(t, c.method, c.path, map[string]string{"title": short, "content": "long enough"}, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s title=%q", c.method, c.path, short)
			assert.Equal(t, "ValidationError", decodeError(t, w).Error)

			w = env.do(t, c.method, c.path, map[string]string{"title": "long enough", "content": short}, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s content=%q", c.method, c.path, short)
		}
	}

	assert.Zero(t, env.repo.callCount())
}

func TestSave_CreateThenUpdateSamePost(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/post/save", map[string]interface{}{
		"id": nil, "title": "First draft", "content": "Work in progress",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	all := decodePosts(t, env.do(t, http.MethodGet, "/dashboard", nil, token))
	require.Len(t, all, 1)
	created := all[0]
	assert.False(t, created.IsPublished)
	assert.Nil(t, created.UpdatedAt)

	w = env.do(t, http.MethodPost, "/post/save", map[string]interface{}{
		"id": created.ID, "title": "Final title", "content": "Finished text", "is_published": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	all = decodePosts(t, env.do(t, http.MethodGet, "/dashboard", nil, token))
	require.Len(t, all, 1, "save with an existing id must not create a duplicate")
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "Final title", all[0].Title)
	assert.True(t, all[0].IsPublished)
	require.NotNil(t, all[0].UpdatedAt)
}

func TestListingAndGet(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	for _, title := range []string{"Oldest published", "Newest published"} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/post/publish",
			map[string]string{"title": title, "content": "published body"}, token).Code)
	}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/post/save",
		map[string]string{"title": "Newest draft", "content": "draft body"}, token).Code)

	published := decodePosts(t, env.do(t, http.MethodGet, "/", nil, ""))
	require.Len(t, published, 2)
	assert.Equal(t, "Newest published", published[0].Title)
	assert.Equal(t, "Oldest published", published[1].Title)
	for _, p := range published {
		assert.True(t, p.IsPublished)
	}

	all := decodePosts(t, env.do(t, http.MethodGet, "/dashboard", nil, token))
	require.Len(t, all, 3)
	assert.Equal(t, "Newest draft", all[0].Title)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "dashboard must be newest first")
	}

	one := env.do(t, http.MethodGet, "/post/1", nil, "")
	require.Equal(t, http.StatusOK, one.Code)
	got := decodePosts(t, one)
	require.Len(t, got, 1)
	assert.Equal(t, "Oldest published", got[0].Title)

	missing := env.do(t, http.MethodGet, "/post/999", nil, "")
	assert.Equal(t, http.StatusOK, missing.Code)
	assert.JSONEq(t, "[]", missing.Body.String())

	bad := env.do(t, http.MethodGet, "/post/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/post/publish",
		map[string]string{"title": "Original", "content": "Original body"}, token).Code)

	w := env.do(t, http.MethodPut, "/post/1", map[string]interface{}{
		"title": "Changed <b>", "content": "Changed body", "is_published": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Post updated!"}`, w.Body.String())

	got := decodePosts(t, env.do(t, http.MethodGet, "/post/1", nil, ""))
	require.Len(t, got, 1)
	assert.Equal(t, "Changed &lt;b&gt;", got[0].Title)
	assert.False(t, got[0].IsPublished)

	w = env.do(t, http.MethodDelete, "/post/1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Post deleted!"}`, w.Body.String())

	assert.JSONEq(t, "[]", env.do(t, http.MethodGet, "/post/1", nil, "").Body.String())
}

func TestUpstreamErrors(t *testing.T) {
	t.Run("development echoes the cause", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.repo.failWith = errors.New("connection reset by peer")

		w := env.do(t, http.MethodGet, "/", nil, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "UpstreamError", body.Error)
		assert.Contains(t, body.Message, "connection reset by peer")
	})

	t.Run("production hides the cause", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *RouterConfig) { cfg.Production = true })
		env.repo.failWith = errors.New("connection reset by peer")

		w := env.do(t, http.MethodGet, "/dashboard", nil, env.adminToken(t))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestFallbacks(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/no/such/route", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", decodeError(t, w).Error)

	w = env.do(t, http.MethodPatch, "/dashboard", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "MethodNotAllowed", decodeError(t, w).Error)

	w = env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestOversizedBody(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	huge := strings.Repeat("x", handlers.MaxBodyBytes+1)
	w := env.do(t, http.MethodPost, "/post/publish", map[string]string{"title": "Big one", "content": huge}, token)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, env.repo.callCount())
}
