package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
)

const msgCommentNotFound = "comment not found"

type CommentService struct {
	Repo   repo.CommentRepository
	Logger *logrus.Logger
}

func NewCommentService(repo repo.CommentRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Repo: repo, Logger: logger}
}

// Add attaches a comment to a published post.
func (s *CommentService) Add(ctx context.Context, blogID int64, authorName, text string) (*entity.Comment, error) {
	details := map[string]string{}
	if blogID <= 0 {
		details["blog_id"] = "is required"
	}
	if strings.TrimSpace(authorName) == "" {
		details["author_name"] = "is required"
	}
	if strings.TrimSpace(text) == "" {
		details["comment_text"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperror.InvalidInput("blog id, author name, and comment text are required", details)
	}

	c, err := s.Repo.CreateOnPublished(ctx, entity.Comment{
		BlogID:      blogID,
		AuthorName:  strings.TrimSpace(authorName),
		CommentText: text,
	})
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrBlogNotFound):
		return nil, apperror.NotFound(msgBlogNotFound)
	case errors.Is(err, repo.ErrBlogNotPublished):
		return nil, apperror.InvalidState("blog post not found or not published")
	default:
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to add comment")
	}

	commentMutations.Add("create", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"blog_id": blogID, "comment_id": c.ID}).Info("comment added")
	}
	return c, nil
}

// ListByBlog returns the post's comments newest first; an unknown post yields an
// empty list.
func (s *CommentService) ListByBlog(ctx context.Context, blogID int64) ([]entity.Comment, error) {
	out, err := s.Repo.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to fetch comments")
	}
	return out, nil
}

func (s *CommentService) CountByBlog(ctx context.Context, blogID int64) (int64, error) {
	n, err := s.Repo.CountByBlog(ctx, blogID)
	if err != nil {
		return 0, mapRepoErr(err, msgBlogNotFound, "failed to count comments")
	}
	return n, nil
}

func (s *CommentService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err, msgCommentNotFound, "failed to delete comment")
	}
	commentMutations.Add("delete", 1)
	if s.Logger != nil {
		s.Logger.WithField("comment_id", id).Info("comment deleted")
	}
	return nil
}
