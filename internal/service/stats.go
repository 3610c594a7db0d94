package service

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"blognest/internal/model"
	"blognest/internal/redis"
	"blognest/internal/repository"
)

// StatsService serves the counter projection for a blog. Like and comment
// counts come from the denormalized Postgres columns; share counts live in
// Redis since shares are fire-and-forget and never need transactional
// coupling to the blog row.
type StatsService struct {
	blogRepo repository.BlogRepository
	cache    *redis.Client
}

func NewStatsService(blogRepo repository.BlogRepository, cache *redis.Client) *StatsService {
	return &StatsService{
		blogRepo: blogRepo,
		cache:    cache,
	}
}

func shareKey(blogID int64) string {
	return fmt.Sprintf("shares:blog:%d", blogID)
}

// Share increments the blog's share counter and returns the new total.
func (s *StatsService) Share(ctx context.Context, blogID int64) (int64, error) {
	// Verify the blog exists so shares of deleted posts don't resurrect keys.
	if _, _, err := s.blogRepo.GetCounts(ctx, blogID); err != nil {
		return 0, err
	}

	count, err := s.cache.Incr(ctx, shareKey(blogID)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment share counter: %w", err)
	}
	return count, nil
}

// Stats re-reads the counters for one blog.
func (s *StatsService) Stats(ctx context.Context, blogID int64) (*model.BlogStats, error) {
	likes, comments, err := s.blogRepo.GetCounts(ctx, blogID)
	if err != nil {
		return nil, err
	}

	shares, err := s.cache.Get(ctx, shareKey(blogID)).Int64()
	if err != nil && err != goredis.Nil {
		return nil, fmt.Errorf("read share counter: %w", err)
	}

	return &model.BlogStats{
		LikesCount:    likes,
		CommentsCount: comments,
		SharesCount:   shares,
	}, nil
}

// ClearShares drops the share counter after a blog is deleted. Best effort.
func (s *StatsService) ClearShares(ctx context.Context, blogID int64) error {
	return s.cache.Del(ctx, shareKey(blogID)).Err()
}
