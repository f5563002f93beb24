package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
)

const (
	msgBlogNotFound = "blog post not found"

	defaultSearchSize = 10
	maxSearchSize     = 50
)

var allowedBannerExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type BlogService struct {
	Repo     repo.BlogRepository
	Assets   AssetStore
	Index    BlogIndexer
	Logger   *logrus.Logger
	MaxBytes int64
}

func NewBlogService(repo repo.BlogRepository, assets AssetStore, index BlogIndexer, logger *logrus.Logger, maxBytes int64) *BlogService {
	return &BlogService{Repo: repo, Assets: assets, Index: index, Logger: logger, MaxBytes: maxBytes}
}

// Upload is a hero banner file received with a create or update request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// BlogInput is the validated-at-the-boundary payload for create and update.
type BlogInput struct {
	Title       string
	Subtitle    string
	Content     string
	AuthorName  string
	IsPublished bool
	Banner      *Upload
}

func (in BlogInput) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "is required"
	}
	if strings.TrimSpace(in.Content) == "" {
		details["content"] = "is required"
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		details["author_name"] = "is required"
	}
	if len(details) > 0 {
		return apperror.InvalidInput("title, content, and author name are required", details)
	}
	return nil
}

func (in BlogInput) draft(banner *string) entity.BlogDraft {
	d := entity.BlogDraft{
		HeroBanner:  banner,
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		AuthorName:  strings.TrimSpace(in.AuthorName),
		IsPublished: in.IsPublished,
	}
	if s := strings.TrimSpace(in.Subtitle); s != "" {
		d.Subtitle = &s
	}
	return d
}

// storeBanner validates and saves the upload, returning its asset name (nil when
// there is no upload).
func (s *BlogService) storeBanner(ctx context.Context, u *Upload) (*string, error) {
	if u == nil {
		return nil, nil
	}
	if s.MaxBytes > 0 && u.Size > s.MaxBytes {
		return nil, apperror.New(apperror.KindTooLarge, "hero banner exceeds the upload size limit").
			WithDetails(map[string]int64{"max_bytes": s.MaxBytes})
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !allowedBannerExt[ext] {
		return nil, apperror.InvalidInput("hero banner must be an image", map[string]string{"hero_banner": "must be a jpg, jpeg, png, gif or webp file"})
	}
	if s.Assets == nil {
		return nil, apperror.Internal("file uploads are not configured", errors.New("no asset store"))
	}
	name := uuid.NewString() + ext
	if err := s.Assets.Save(ctx, name, u.ContentType, u.Body); err != nil {
		return nil, apperror.Internal("failed to store hero banner", err)
	}
	return &name, nil
}

func (s *BlogService) discardBanner(ctx context.Context, name *string) {
	if name == nil || s.Assets == nil {
		return
	}
	if err := s.Assets.Remove(ctx, *name); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("asset", *name).Warn("failed to remove hero banner")
	}
}

func (s *BlogService) syncIndex(ctx context.Context, b *entity.Blog) {
	if s.Index == nil || b == nil {
		return
	}
	if err := s.Index.Sync(ctx, b); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("blog_id", b.ID).Warn("search index sync failed")
	}
}

// BannerURL resolves a stored asset name to a client URL.
func (s *BlogService) BannerURL(name *string) *string {
	if name == nil || s.Assets == nil {
		return nil
	}
	u := s.Assets.URL(*name)
	return &u
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*entity.Blog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	banner, err := s.storeBanner(ctx, in.Banner)
	if err != nil {
		return nil, err
	}
	b, err := s.Repo.Create(ctx, in.draft(banner))
	if err != nil {
		s.discardBanner(ctx, banner)
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to create blog post")
	}
	blogMutations.Add("create", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"blog_id": b.ID, "has_hero_banner": banner != nil, "is_published": b.IsPublished}).Info("blog created")
	}
	s.syncIndex(ctx, b)
	return b, nil
}

func (s *BlogService) List(ctx context.Context) ([]entity.Blog, error) {
	out, err := s.Repo.List(ctx, false)
	if err != nil {
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to fetch blogs")
	}
	return out, nil
}

func (s *BlogService) ListPublished(ctx context.Context) ([]entity.Blog, error) {
	out, err := s.Repo.List(ctx, true)
	if err != nil {
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to fetch published blogs")
	}
	return out, nil
}

// Get returns the post. Drafts are hidden from anonymous viewers.
func (s *BlogService) Get(ctx context.Context, id int64, viewer *entity.Identity) (*entity.Blog, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to fetch blog post")
	}
	if !b.IsPublished && viewer == nil {
		return nil, apperror.NotFound(msgBlogNotFound)
	}
	return b, nil
}

// Update overwrites the post; the stored banner is kept unless a new one is uploaded.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) (*entity.Blog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	banner, err := s.storeBanner(ctx, in.Banner)
	if err != nil {
		return nil, err
	}
	b, err := s.Repo.Update(ctx, id, in.draft(banner))
	if err != nil {
		s.discardBanner(ctx, banner)
		return nil, mapRepoErr(err, msgBlogNotFound, "failed to update blog post")
	}
	blogMutations.Add("update", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"blog_id": id, "is_published": b.IsPublished}).Info("blog updated")
	}
	s.syncIndex(ctx, b)
	return b, nil
}

// TogglePublish flips the publish flag and returns the new value.
func (s *BlogService) TogglePublish(ctx context.Context, id int64) (bool, error) {
	published, err := s.Repo.TogglePublish(ctx, id)
	if err != nil {
		return false, mapRepoErr(err, msgBlogNotFound, "failed to update publish status")
	}
	blogMutations.Add("toggle_publish", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"blog_id": id, "is_published": published}).Info("publish status toggled")
	}
	if s.Index != nil {
		if b, gErr := s.Repo.GetByID(ctx, id); gErr == nil {
			s.syncIndex(ctx, b)
		}
	}
	return published, nil
}

// Delete removes the post, its comments and its banner.
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, msgBlogNotFound, "failed to delete blog post")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err, msgBlogNotFound, "failed to delete blog post")
	}
	blogMutations.Add("delete", 1)
	if s.Logger != nil {
		s.Logger.WithField("blog_id", id).Info("blog deleted")
	}
	s.discardBanner(ctx, b.HeroBanner)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("blog_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

// Search returns published posts matching q, most relevant first. Without a
// configured index the result is empty.
func (s *BlogService) Search(ctx context.Context, q string, size int) ([]entity.Blog, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.InvalidInput("search query is required", map[string]string{"q": "is required"})
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index == nil {
		return []entity.Blog{}, nil
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal("failed to search blogs", err)
	}
	out := make([]entity.Blog, 0, len(ids))
	for _, id := range ids {
		b, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, mapRepoErr(err, msgBlogNotFound, "failed to search blogs")
		}
		if b.IsPublished {
			out = append(out, *b)
		}
	}
	return out, nil
}
