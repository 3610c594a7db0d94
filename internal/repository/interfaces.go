package repository

import (
	"context"

	"blognest/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	// LinkProvider attaches an OAuth provider id to an existing account in a
	// single atomic update. A nil photoURL leaves the stored picture untouched.
	LinkProvider(ctx context.Context, userID int64, provider, providerID string, photoURL *string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, blogID int64) (*model.Blog, error)
	List(ctx context.Context) ([]model.Blog, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Blog, error)
	Update(ctx context.Context, blogID int64, update model.BlogUpdate) (*model.Blog, error)
	Delete(ctx context.Context, blogID int64) error
	// ToggleLike flips the caller's like in one transaction: the like row and
	// the denormalized counter always change together.
	ToggleLike(ctx context.Context, blogID, userID int64) (*model.LikeResult, error)
	IsLiked(ctx context.Context, blogID, userID int64) (bool, error)
	GetCounts(ctx context.Context, blogID int64) (likes, comments int, err error)
}

type CommentRepository interface {
	// Create appends a comment and increments the blog's comment counter in
	// one transaction.
	Create(ctx context.Context, blogID, userID int64, content string) (*model.Comment, int, error)
	// Delete removes a comment when the caller authored the comment or the
	// blog, decrementing the counter in the same transaction. Returns the
	// resulting comment count.
	Delete(ctx context.Context, blogID, commentID, userID int64) (int, error)
	ListByBlogID(ctx context.Context, blogID int64) ([]model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
}
