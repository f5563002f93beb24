package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/config"
	"github.com/oksasatya/go-blog-api/internal/container"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

const (
	adminID = "0b6c1c8e-4f1e-4a7e-9b8e-2f3f4a5b6c7d"
	userID  = "9a1b2c3d-0000-4000-8000-000000000001"
	secret  = "router-test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	engine  *gin.Engine
	jwt     *helpers.JWTManager
	users   *memory.UserDirectory
	uploads string
	admin   string
	user    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	uploads := t.TempDir()
	assets, err := storage.NewLocalStore(uploads, "/uploads")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	db := memory.New()
	users := memory.NewUserDirectory(
		entity.User{ID: adminID, Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin, IsActive: true},
		entity.User{ID: userID, Email: "user@example.com", Name: "User", Role: entity.RoleUser, IsActive: true},
	)
	cfg := &config.Config{
		Env:                      "test",
		AuthLookupTimeout:        time.Second,
		AuthDegradeOnLookupError: true,
		UploadsDir:               uploads,
		UploadsMaxBytes:          1 << 10,
		UploadsPublicBase:        "/uploads",
		RateLimitWrites:          60,
		RateLimitWindow:          time.Minute,
		DebugMetricsEnabled:      true,
	}
	jwtm := helpers.NewJWTManager(secret, time.Hour)
	c := &container.Container{
		Config:   cfg,
		Logger:   logger,
		JWT:      jwtm,
		Users:    users,
		Blogs:    memory.NewBlogRepository(db),
		Comments: memory.NewCommentRepository(db),
		Assets:   assets,
	}

	r := gin.New()
	reg := NewRegistry(r)
	InitModules(reg, c, time.Now())
	reg.RegisterAll()

	s := &testServer{t: t, engine: r, jwt: jwtm, users: users, uploads: uploads}
	s.admin = s.token(adminID)
	s.user = s.token(userID)
	return s
}

func (s *testServer) token(id string) string {
	tok, _, err := s.jwt.GenerateAccessToken(id, id+"@example.com")
	if err != nil {
		s.t.Fatalf("token: %v", err)
	}
	return tok
}

func (s *testServer) send(req *http.Request, token string) (int, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: non-JSON body %q", req.Method, req.URL.Path, w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) sendJSON(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) createBlog(token string, body map[string]any) int64 {
	s.t.Helper()
	code, env := s.sendJSON(http.MethodPost, "/api/blogs", token, body)
	if code != http.StatusCreated {
		s.t.Fatalf("create: %d %+v", code, env)
	}
	var b struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &b)
	return b.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if len(raw) == 0 {
		t.Fatalf("response has no data field")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type blogView struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	AuthorName    string  `json:"author_name"`
	IsPublished   bool    `json:"is_published"`
	HeroBanner    *string `json:"hero_banner"`
	HeroBannerURL *string `json:"hero_banner_url"`
}

func TestBlogLifecycleExample(t *testing.T) {
	s := newTestServer(t)

	id := s.createBlog(s.user, map[string]any{"title": "A", "content": "B", "author_name": "C"})
	if id == 0 {
		t.Fatalf("no id assigned")
	}

	code, env := s.sendJSON(http.MethodGet, fmt.Sprintf("/api/blogs/%d", id), s.user, nil)
	got := decode[blogView](t, env.Data)
	if code != http.StatusOK || got.Title != "A" || got.Content != "B" || got.AuthorName != "C" || got.IsPublished {
		t.Fatalf("get: %d %+v", code, got)
	}

	code, env = s.sendJSON(http.MethodPatch, fmt.Sprintf("/api/blogs/%d/publish", id), s.admin, nil)
	toggled := decode[struct {
		NewStatus bool `json:"new_status"`
	}](t, env.Data)
	if code != http.StatusOK || !toggled.NewStatus {
		t.Fatalf("toggle: %d %s", code, env.Data)
	}

	code, env = s.sendJSON(http.MethodGet, "/api/blogs/published", "", nil)
	published := decode[[]blogView](t, env.Data)
	if code != http.StatusOK || len(published) != 1 || published[0].ID != id {
		t.Fatalf("published: %d %+v", code, published)
	}

	second := s.createBlog(s.user, map[string]any{"title": "D", "content": "E", "author_name": "F"})
	if second == id {
		t.Fatalf("id reused")
	}
	_, env = s.sendJSON(http.MethodGet, "/api/blogs", s.user, nil)
	all := decode[[]blogView](t, env.Data)
	if len(all) != 2 || all[0].ID != second {
		t.Fatalf("list newest first: %+v", all)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)
	bodies := []map[string]any{
		{"content": "B", "author_name": "C"},
		{"title": "A", "content": " ", "author_name": "C"},
		{"title": "A", "content": "B"},
	}
	for _, b := range bodies {
		code, env := s.sendJSON(http.MethodPost, "/api/blogs", s.user, b)
		if code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "INVALID_INPUT" {
			t.Errorf("body %v: %d %+v", b, code, env)
		}
	}
	_, env := s.sendJSON(http.MethodGet, "/api/blogs", s.user, nil)
	if all := decode[[]blogView](t, env.Data); len(all) != 0 {
		t.Fatalf("invalid posts persisted: %+v", all)
	}

	code, env := s.sendJSON(http.MethodGet, "/api/blogs/abc", s.user, nil)
	if code != http.StatusBadRequest || env.Error.Code != "INVALID_INPUT" {
		t.Fatalf("non-numeric id: %d %+v", code, env)
	}
}

func TestIsPublishedCoercion(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		value any
		want  bool
	}{
		{true, true},
		{"true", true},
		{"yes", false},
		{1, false},
		{false, false},
	}
	for _, c := range cases {
		id := s.createBlog(s.user, map[string]any{"title": "A", "content": "B", "author_name": "C", "is_published": c.value})
		_, env := s.sendJSON(http.MethodGet, fmt.Sprintf("/api/blogs/%d", id), s.user, nil)
		if got := decode[blogView](t, env.Data); got.IsPublished != c.want {
			t.Errorf("is_published=%v: got %v", c.value, got.IsPublished)
		}
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)

	code, env := s.sendJSON(http.MethodGet, "/api/blogs", "", nil)
	if code != http.StatusUnauthorized || env.Error.Code != "UNAUTHENTICATED" || env.Message != "access token required" {
		t.Fatalf("no token: %d %+v", code, env)
	}

	wrong, _, _ := helpers.NewJWTManager("other-secret", time.Hour).GenerateAccessToken(adminID, "a")
	code, env = s.sendJSON(http.MethodGet, "/api/blogs", wrong, nil)
	if code != http.StatusForbidden || env.Error.Code != "INVALID_TOKEN" {
		t.Fatalf("wrong secret: %d %+v", code, env)
	}

	past := time.Now().Add(-time.Hour)
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &helpers.Claims{
		UserID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}).SignedString([]byte(secret))
	code, env = s.sendJSON(http.MethodGet, "/api/blogs", expired, nil)
	if code != http.StatusForbidden || env.Error.Code != "TOKEN_EXPIRED" {
		t.Fatalf("expired: %d %+v", code, env)
	}

	s.users.Put(entity.User{ID: userID, Email: "user@example.com", IsActive: false})
	code, env = s.sendJSON(http.MethodGet, "/api/blogs", s.user, nil)
	if code != http.StatusUnauthorized || env.Message != "user account not found or inactive" {
		t.Fatalf("inactive user: %d %+v", code, env)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.createBlog(s.user, map[string]any{"title": "A", "content": "B", "author_name": "C"})
	path := fmt.Sprintf("/api/blogs/%d", id)
	update := map[string]any{"title": "A2", "content": "B2", "author_name": "C2", "is_published": true}

	checks := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, path, update},
		{http.MethodPatch, path + "/publish", nil},
		{http.MethodDelete, path, nil},
	}
	for _, c := range checks {
		code, env := s.sendJSON(c.method, c.path, s.user, c.body)
		if code != http.StatusForbidden || env.Error.Code != "FORBIDDEN" {
			t.Fatalf("%s %s as user: %d %+v", c.method, c.path, code, env)
		}
	}

	code, env := s.sendJSON(http.MethodPut, path, s.admin, update)
	if got := decode[blogView](t, env.Data); code != http.StatusOK || got.Title != "A2" || !got.IsPublished {
		t.Fatalf("update as admin: %d %+v", code, got)
	}
	if code, _ := s.sendJSON(http.MethodPatch, path+"/publish", s.admin, nil); code != http.StatusOK {
		t.Fatalf("toggle as admin: %d", code)
	}
	if code, _ := s.sendJSON(http.MethodDelete, path, s.admin, nil); code != http.StatusOK {
		t.Fatalf("delete as admin: %d", code)
	}
	if code, env := s.sendJSON(http.MethodDelete, path, s.admin, nil); code != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("delete again: %d %+v", code, env)
	}
}

func TestDraftsHiddenFromAnonymous(t *testing.T) {
	s := newTestServer(t)
	id := s.createBlog(s.user, map[string]any{"title": "A", "content": "B", "author_name": "C"})
	path := fmt.Sprintf("/api/blogs/%d", id)

	if code, _ := s.sendJSON(http.MethodGet, path, "", nil); code != http.StatusNotFound {
		t.Fatalf("anonymous draft: %d", code)
	}
	if code, _ := s.sendJSON(http.MethodGet, path, s.user, nil); code != http.StatusOK {
		t.Fatalf("authenticated draft: %d", code)
	}
	if code, _ := s.sendJSON(http.MethodGet, "/api/blogs/999", s.user, nil); code != http.StatusNotFound {
		t.Fatalf("missing: %d", code)
	}
}

func TestEmptyListsReturnEmptyArray(t *testing.T) {
	s := newTestServer(t)
	paths := []struct {
		path  string
		token string
	}{
		{"/api/blogs", s.user},
		{"/api/blogs/published", ""},
		{"/api/comments/blog/42", ""},
	}
	for _, p := range paths {
		code, env := s.sendJSON(http.MethodGet, p.path, p.token, nil)
		if code != http.StatusOK || string(env.Data) != "[]" {
			t.Errorf("%s: %d data=%q", p.path, code, env.Data)
		}
	}

	live := s.createBlog(s.user, map[string]any{"title": "L", "content": "B", "author_name": "C", "is_published": true})
	_, env := s.sendJSON(http.MethodGet, fmt.Sprintf("/api/comments/blog/%d", live), "", nil)
	if string(env.Data) != "[]" {
		t.Fatalf("new post comments: data=%q", env.Data)
	}
}

func TestCommentsFlow(t *testing.T) {
	s := newTestServer(t)
	draft := s.createBlog(s.user, map[string]any{"title": "A", "content": "B", "author_name": "C"})
	live := s.createBlog(s.user, map[string]any{"title": "L", "content": "B", "author_name": "C", "is_published": true})

	code, env := s.sendJSON(http.MethodPost, "/api/comments", "", map[string]any{"blog_id": 999, "author_name": "x", "comment_text": "y"})
	if code != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("missing blog: %d %+v", code, env)
	}
	code, env = s.sendJSON(http.MethodPost, "/api/comments", "", map[string]any{"blog_id": draft, "author_name": "x", "comment_text": "y"})
	if code != http.StatusNotFound || env.Error.Code != "INVALID_STATE" {
		t.Fatalf("draft blog: %d %+v", code, env)
	}
	code, env = s.sendJSON(http.MethodPost, "/api/comments", "", map[string]any{"blog_id": live, "author_name": "x"})
	if code != http.StatusBadRequest {
		t.Fatalf("missing text: %d %+v", code, env)
	}

	for i := 0; i < 2; i++ {
		if code, env := s.sendJSON(http.MethodPost, "/api/comments", "", map[string]any{"blog_id": live, "author_name": "x", "comment_text": "y"}); code != http.StatusCreated {
			t.Fatalf("add: %d %+v", code, env)
		}
	}
	_, env = s.sendJSON(http.MethodGet, fmt.Sprintf("/api/comments/count/%d", live), "", nil)
	count := decode[struct {
		Count int64 `json:"comment_count"`
	}](t, env.Data)
	if count.Count != 2 {
		t.Fatalf("count = %d", count.Count)
	}
	_, env = s.sendJSON(http.MethodGet, fmt.Sprintf("/api/comments/count/%d", draft), "", nil)
	if c := decode[struct {
		Count int64 `json:"comment_count"`
	}](t, env.Data); c.Count != 0 {
		t.Fatalf("rejected comments persisted: %d", c.Count)
	}

	if code, _ := s.sendJSON(http.MethodDelete, fmt.Sprintf("/api/blogs/%d", live), s.admin, nil); code != http.StatusOK {
		t.Fatalf("delete blog: %d", code)
	}
	_, env = s.sendJSON(http.MethodGet, fmt.Sprintf("/api/comments/blog/%d", live), "", nil)
	if left := decode[[]map[string]any](t, env.Data); len(left) != 0 {
		t.Fatalf("comments survived cascade: %v", left)
	}
	if code, _ := s.sendJSON(http.MethodDelete, "/api/comments/12345", "", nil); code != http.StatusNotFound {
		t.Fatalf("delete missing comment: %d", code)
	}
}

func multipartBlog(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("hero_banner", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMultipartCreateWithBanner(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{"title": "A", "content": "B", "author_name": "C", "is_published": "true"}

	code, env := s.send(multipartBlog(t, fields, "hero.png", []byte("fake png")), s.user)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %+v", code, env)
	}
	got := decode[blogView](t, env.Data)
	if !got.IsPublished || got.HeroBanner == nil || got.HeroBannerURL == nil {
		t.Fatalf("blog = %+v", got)
	}
	if !strings.HasPrefix(*got.HeroBannerURL, "/uploads/") {
		t.Fatalf("url = %s", *got.HeroBannerURL)
	}
	stored, err := os.ReadFile(filepath.Join(s.uploads, *got.HeroBanner))
	if err != nil || string(stored) != "fake png" {
		t.Fatalf("stored file: %q %v", stored, err)
	}

	req := httptest.NewRequest(http.MethodGet, *got.HeroBannerURL, nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "fake png" {
		t.Fatalf("static serve: %d %q", w.Code, w.Body.String())
	}

	code, env = s.send(multipartBlog(t, fields, "big.png", bytes.Repeat([]byte("x"), 2<<10)), s.user)
	if code != http.StatusRequestEntityTooLarge || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("oversize: %d %+v", code, env)
	}
	code, env = s.send(multipartBlog(t, fields, "notes.txt", []byte("hi")), s.user)
	if code != http.StatusBadRequest {
		t.Fatalf("bad extension: %d %+v", code, env)
	}
}

func TestBlogWriteBodyIsCapped(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{"title": "A", "content": "B", "author_name": "C"}

	code, env := s.send(multipartBlog(t, fields, "huge.png", bytes.Repeat([]byte("x"), 256<<10)), s.user)
	if code != http.StatusRequestEntityTooLarge || env.Error == nil || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("oversize multipart: %d %+v", code, env)
	}

	id := s.createBlog(s.user, map[string]any{"title": fields["title"], "content": fields["content"], "author_name": fields["author_name"]})
	huge := map[string]any{"title": "A", "content": strings.Repeat("y", 256<<10), "author_name": "C"}
	code, env = s.sendJSON(http.MethodPut, fmt.Sprintf("/api/blogs/%d", id), s.admin, huge)
	if code != http.StatusRequestEntityTooLarge || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("oversize json update: %d %+v", code, env)
	}

	entries, err := os.ReadDir(s.uploads)
	if err != nil || len(entries) != 0 {
		t.Fatalf("uploads dir = %v %v", entries, err)
	}
	_, env = s.sendJSON(http.MethodGet, "/api/blogs", s.user, nil)
	if all := decode[[]blogView](t, env.Data); len(all) != 1 || all[0].Content != "B" {
		t.Fatalf("posts = %+v", all)
	}
}

func TestHealthAndNoRoute(t *testing.T) {
	s := newTestServer(t)

	code, env := s.sendJSON(http.MethodGet, "/health", "", nil)
	health := decode[map[string]any](t, env.Data)
	if code != http.StatusOK || health["status"] != "OK" {
		t.Fatalf("health: %d %v", code, health)
	}

	code, env = s.sendJSON(http.MethodGet, "/api/nope", "", nil)
	if code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("no route: %d %+v", code, env)
	}
}
