package entity

import "time"

// Blog is a blog post. HeroBanner holds the stored asset name, never a URL.
type Blog struct {
	ID          int64
	HeroBanner  *string
	Title       string
	Subtitle    *string
	Content     string
	AuthorName  string
	IsPublished bool
	PublishDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BlogDraft carries the writable fields of a blog post for create and update.
// A nil HeroBanner on update keeps the stored banner.
type BlogDraft struct {
	HeroBanner  *string
	Title       string
	Subtitle    *string
	Content     string
	AuthorName  string
	IsPublished bool
}
