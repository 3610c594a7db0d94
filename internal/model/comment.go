package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a blog.
type Comment struct {
	ID        int64          `db:"id" json:"id"`
	BlogID    int64          `db:"blog_id" json:"blog_id"`
	UserID    int64          `db:"user_id" json:"-"`
	Content   string         `db:"content" json:"content"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	Author    *AuthorSummary `json:"author,omitempty"` // Joined field
}

// AddCommentRequest is the request body for creating a comment.
type AddCommentRequest struct {
	Content string `json:"content"`
}

// CommentResult is returned after a successful comment mutation so clients
// can update their counters without a refetch.
type CommentResult struct {
	Comment       *Comment `json:"comment,omitempty"`
	CommentsCount int      `json:"commentsCount"`
}

const MaxCommentLength = 500

var (
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentAuthor is returned when the caller is neither the
	// comment's author nor the blog's author.
	ErrNotCommentAuthor = errors.New("not allowed to delete this comment")

	ErrCommentRequired = errors.New("comment content is required")
	ErrCommentTooLong  = errors.New("comment content too long")
)
