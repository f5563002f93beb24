package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrBlogNotFound     = errors.New("blog not found")
	ErrBlogNotPublished = errors.New("blog not published")
)
