package model

import (
	"errors"
	"time"
)

// Blog represents a post with its interaction counters. like_count and
// comment_count are denormalized caches of the blog_likes/blog_comments
// rows and are only ever written in the same transaction as those rows.
type Blog struct {
	ID            int64     `db:"id" json:"id"`
	AuthorID      int64     `db:"author_id" json:"author_id"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	CoverImageURL *string   `db:"cover_image_url" json:"cover_image,omitempty"`
	CoverImageKey *string   `db:"cover_image_key" json:"-"`
	LikeCount     int       `db:"like_count" json:"likesCount"`
	CommentCount  int       `db:"comment_count" json:"commentsCount"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in the blogs table)
	Author   *AuthorSummary `json:"author,omitempty"`
	IsLiked  bool           `json:"isLiked"`
	Comments []Comment      `json:"comments,omitempty"`
}

// CreateBlogRequest carries the form fields of POST /blog/create.
type CreateBlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateBlogRequest carries a partial update: only non-nil fields change.
type UpdateBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// BlogUpdate is the set of column changes applied by the repository.
type BlogUpdate struct {
	Title         *string
	Content       *string
	CoverImageURL *string
	CoverImageKey *string
}

// LikeResult is returned by the like toggle.
type LikeResult struct {
	LikesCount int  `json:"likesCount"`
	IsLiked    bool `json:"isLiked"`
}

// BlogStats is the read-only counter projection for a blog.
type BlogStats struct {
	LikesCount    int   `json:"likesCount"`
	CommentsCount int   `json:"commentsCount"`
	SharesCount   int64 `json:"sharesCount"`
}

// UploadResult references a durably stored cover image.
type UploadResult struct {
	URL string
	Key string
}

// Cover image constraints
const (
	MaxCoverSizeBytes = 5 * 1024 * 1024
	CoverFolder       = "covers"
	CoverMaxWidth     = 1600
	ContentTypeJPEG   = "image/jpeg"
)

// IsAllowedImageType reports whether a cover upload content type is accepted.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// Blog errors
var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrNotBlogAuthor = errors.New("not the author of this blog")
	ErrTitleRequired = errors.New("title is required")
	ErrBodyRequired  = errors.New("content is required")

	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)
