package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

type CommentHandler struct {
	Svc         *application.CommentService
	Logger      *logrus.Logger
	ExposeCause bool
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger, exposeCause bool) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger, ExposeCause: exposeCause}
}

type addCommentRequest struct {
	BlogID      int64  `json:"blog_id" form:"blog_id" binding:"required,gt=0"`
	AuthorName  string `json:"author_name" form:"author_name" binding:"notblank"`
	CommentText string `json:"comment_text" form:"comment_text" binding:"notblank"`
}

type commentResponse struct {
	ID          int64     `json:"id"`
	BlogID      int64     `json:"blog_id"`
	AuthorName  string    `json:"author_name"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCommentResponse(c *entity.Comment) commentResponse {
	return commentResponse{
		ID:          c.ID,
		BlogID:      c.BlogID,
		AuthorName:  c.AuthorName,
		CommentText: c.CommentText,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (h *CommentHandler) fail(c *gin.Context, err error) {
	writeError(c, h.Logger, h.ExposeCause, err)
}

func (h *CommentHandler) Add(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	cm, err := h.Svc.Add(c.Request.Context(), req.BlogID, req.AuthorName, req.CommentText)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCommentResponse(cm), "comment added successfully", nil)
}

func (h *CommentHandler) ListByBlog(c *gin.Context) {
	blogID, err := parseID(c, "blogId")
	if err != nil {
		h.fail(c, err)
		return
	}
	comments, err := h.Svc.ListByBlog(c.Request.Context(), blogID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	response.Success(c, http.StatusOK, out, "comments fetched", gin.H{"count": len(out)})
}

func (h *CommentHandler) CountByBlog(c *gin.Context) {
	blogID, err := parseID(c, "blogId")
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := h.Svc.CountByBlog(c.Request.Context(), blogID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blog_id": blogID, "comment_count": n}, "comment count fetched", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "comment deleted successfully", nil)
}
