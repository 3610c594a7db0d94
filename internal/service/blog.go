package service

import (
	"context"
	"log/slog"
	"strings"

	"blognest/internal/model"
	"blognest/internal/repository"
)

// BlogService implements the blog mutations and reads. Ownership checks for
// update/delete happen in the RequireOwner middleware, which hands the
// loaded blog down; like/comment rules live in the repositories' atomic
// mutations.
type BlogService struct {
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
}

func NewBlogService(blogRepo repository.BlogRepository, commentRepo repository.CommentRepository) *BlogService {
	return &BlogService{
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
	}
}

// Create validates and persists a new blog owned by userID. A pre-uploaded
// cover is referenced by URL and key; the caller deletes the object if this
// fails.
func (s *BlogService) Create(ctx context.Context, userID int64, req model.CreateBlogRequest, cover *model.UploadResult) (*model.Blog, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrBodyRequired
	}

	blog := &model.Blog{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if cover != nil {
		blog.CoverImageURL = &cover.URL
		blog.CoverImageKey = &cover.Key
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	return s.blogRepo.GetByID(ctx, blog.ID)
}

// GetByID loads a blog with its comments; when a viewer is present it also
// computes their like status without mutating anything.
func (s *BlogService) GetByID(ctx context.Context, blogID int64, viewerID *int64) (*model.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByBlogID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	blog.Comments = comments

	if viewerID != nil {
		liked, err := s.blogRepo.IsLiked(ctx, blogID, *viewerID)
		if err != nil {
			slog.Warn("failed to check like status", "blog_id", blogID, "error", err)
		} else {
			blog.IsLiked = liked
		}
	}

	return blog, nil
}

// List returns all blogs, newest first.
func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	return s.blogRepo.List(ctx)
}

// ListByAuthor returns the given user's blogs.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Blog, error) {
	return s.blogRepo.ListByAuthor(ctx, authorID)
}

// Update applies a partial update to an owner-verified blog. When a new
// cover replaces an old one it returns the old object key so the caller can
// delete it only after the record durably references the new file.
func (s *BlogService) Update(ctx context.Context, blog *model.Blog, req model.UpdateBlogRequest, newCover *model.UploadResult) (*model.Blog, string, error) {
	update := model.BlogUpdate{}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, "", model.ErrTitleRequired
		}
		update.Title = req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, "", model.ErrBodyRequired
		}
		update.Content = req.Content
	}

	oldCoverKey := ""
	if newCover != nil {
		update.CoverImageURL = &newCover.URL
		update.CoverImageKey = &newCover.Key
		if blog.CoverImageKey != nil {
			oldCoverKey = *blog.CoverImageKey
		}
	}

	updated, err := s.blogRepo.Update(ctx, blog.ID, update)
	if err != nil {
		return nil, "", err
	}

	return updated, oldCoverKey, nil
}

// Delete removes an owner-verified blog record. Cover-image cleanup happens
// in the caller after the record deletion succeeds; the record is
// authoritative for the response.
func (s *BlogService) Delete(ctx context.Context, blog *model.Blog) error {
	return s.blogRepo.Delete(ctx, blog.ID)
}

// ToggleLike flips userID's like on the blog and returns the resulting
// state. Idempotent in pairs: toggling twice restores the original state.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID int64) (*model.LikeResult, error) {
	return s.blogRepo.ToggleLike(ctx, blogID, userID)
}
