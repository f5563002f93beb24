package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

type BlogHandler struct {
	Svc         *application.BlogService
	Logger      *logrus.Logger
	ExposeCause bool
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger, exposeCause bool) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger, ExposeCause: exposeCause}
}

// flexBool is true only for a JSON true or the string "true".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = flexBool(s == "true")
	default:
		*b = false
	}
	return nil
}

type blogRequest struct {
	Title       string   `json:"title" form:"title" binding:"notblank"`
	Subtitle    string   `json:"subtitle" form:"subtitle"`
	Content     string   `json:"content" form:"content" binding:"notblank"`
	AuthorName  string   `json:"author_name" form:"author_name" binding:"notblank"`
	IsPublished flexBool `json:"is_published" form:"-"`
}

type blogResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Subtitle      *string   `json:"subtitle"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	HeroBanner    *string   `json:"hero_banner"`
	HeroBannerURL *string   `json:"hero_banner_url"`
	IsPublished   bool      `json:"is_published"`
	PublishDate   time.Time `json:"publish_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (h *BlogHandler) toResponse(b *entity.Blog) blogResponse {
	return blogResponse{
		ID:            b.ID,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Content:       b.Content,
		AuthorName:    b.AuthorName,
		HeroBanner:    b.HeroBanner,
		HeroBannerURL: h.Svc.BannerURL(b.HeroBanner),
		IsPublished:   b.IsPublished,
		PublishDate:   b.PublishDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (h *BlogHandler) toList(blogs []entity.Blog) []blogResponse {
	out := make([]blogResponse, 0, len(blogs))
	for i := range blogs {
		out = append(out, h.toResponse(&blogs[i]))
	}
	return out
}

func (h *BlogHandler) fail(c *gin.Context, err error) {
	writeError(c, h.Logger, h.ExposeCause, err)
}

// bindInput reads a blog payload from JSON or multipart form data. The returned
// closer releases the uploaded file, if any.
func (h *BlogHandler) bindInput(c *gin.Context) (application.BlogInput, func(), error) {
	noop := func() {}
	var req blogRequest
	if err := c.ShouldBind(&req); err != nil {
		return application.BlogInput{}, noop, bindError(err)
	}
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		req.IsPublished = flexBool(c.PostForm("is_published") == "true")
	}
	in := application.BlogInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		AuthorName:  req.AuthorName,
		IsPublished: bool(req.IsPublished),
	}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return in, noop, nil
	}

	fh, err := c.FormFile("hero_banner")
	if errors.Is(err, http.ErrMissingFile) {
		return in, noop, nil
	}
	if err != nil {
		if tooLarge(err) {
			return in, noop, bindError(err)
		}
		return in, noop, apperror.InvalidInput("invalid hero banner upload", map[string]string{"hero_banner": err.Error()})
	}
	f, err := fh.Open()
	if err != nil {
		return in, noop, apperror.Internal("failed to read hero banner", err)
	}
	in.Banner = &application.Upload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Size:        fh.Size,
		Body:        f,
	}
	return in, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *BlogHandler) Create(c *gin.Context) {
	in, closeFile, err := h.bindInput(c)
	defer closeFile()
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.toResponse(b), "blog post created successfully", nil)
}

func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toList(blogs), "blogs fetched", gin.H{"count": len(blogs)})
}

func (h *BlogHandler) ListPublished(c *gin.Context) {
	blogs, err := h.Svc.ListPublished(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toList(blogs), "published blogs fetched", gin.H{"count": len(blogs)})
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.Svc.Get(c.Request.Context(), id, middleware.IdentityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(b), "blog fetched", nil)
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	in, closeFile, err := h.bindInput(c)
	defer closeFile()
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toResponse(b), "blog post updated successfully", nil)
}

func (h *BlogHandler) TogglePublish(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	published, err := h.Svc.TogglePublish(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "blog post unpublished"
	if published {
		msg = "blog post published"
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "new_status": published}, msg, nil)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "blog post deleted successfully", nil)
}

func (h *BlogHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	blogs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.toList(blogs), "search results", gin.H{"count": len(blogs), "query": c.Query("q")})
}
