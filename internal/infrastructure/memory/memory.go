// Package memory provides in-process repositories for DB_DRIVER=memory and tests.
// Blogs and comments share one lock so deletes cascade atomically.
package memory

import (
	"sync"
	"time"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

type DB struct {
	mu          sync.Mutex
	blogs       map[int64]*entity.Blog
	comments    map[int64]*entity.Comment
	nextBlog    int64
	nextComment int64
	now         func() time.Time
}

func New() *DB {
	return &DB{
		blogs:    make(map[int64]*entity.Blog),
		comments: make(map[int64]*entity.Comment),
		now:      time.Now,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBlog(b *entity.Blog) *entity.Blog {
	cp := *b
	cp.HeroBanner = cloneString(b.HeroBanner)
	cp.Subtitle = cloneString(b.Subtitle)
	return &cp
}
