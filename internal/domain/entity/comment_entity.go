package entity

import "time"

// Comment belongs to a blog post that was published when the comment was created.
type Comment struct {
	ID          int64
	BlogID      int64
	AuthorName  string
	CommentText string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
