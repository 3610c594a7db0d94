package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"blognest/internal/model"
	"blognest/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// Add appends a trimmed comment to the blog. Whitespace-only content is
// rejected before anything touches the database.
func (s *CommentService) Add(ctx context.Context, blogID, userID int64, req model.AddCommentRequest) (*model.CommentResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrCommentRequired
	}
	// The limit counts characters, not bytes, so multi-byte scripts get
	// the full length.
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	comment, count, err := s.commentRepo.Create(ctx, blogID, userID, content)
	if err != nil {
		return nil, err
	}

	return &model.CommentResult{Comment: comment, CommentsCount: count}, nil
}

// Delete removes a comment when userID authored the comment or the blog.
func (s *CommentService) Delete(ctx context.Context, blogID, commentID, userID int64) (*model.CommentResult, error) {
	count, err := s.commentRepo.Delete(ctx, blogID, commentID, userID)
	if err != nil {
		return nil, err
	}

	return &model.CommentResult{CommentsCount: count}, nil
}
