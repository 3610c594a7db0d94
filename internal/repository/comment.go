package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"blognest/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create appends a comment and bumps the blog's comment counter in one
// transaction. Returns the comment with author fields joined plus the new
// counter value.
func (r *commentRepository) Create(ctx context.Context, blogID, userID int64, content string) (*model.Comment, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Bump the counter first: a missing blog fails here before any insert.
	var commentCount int
	err = tx.GetContext(ctx, &commentCount, `
		UPDATE blogs
		SET comment_count = comment_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING comment_count
	`, blogID)
	if err == sql.ErrNoRows {
		return nil, 0, model.ErrBlogNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("update comment count: %w", err)
	}

	query := `
		INSERT INTO blog_comments (blog_id, user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, blog_id, user_id, content, created_at
	`
	var comment model.Comment
	if err := tx.GetContext(ctx, &comment, query, blogID, userID, content); err != nil {
		return nil, 0, fmt.Errorf("insert comment: %w", err)
	}

	var author model.AuthorSummary
	err = tx.GetContext(ctx, &author,
		`SELECT id, firstname, lastname, username, profile_picture FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("get comment author: %w", err)
	}
	comment.Author = &author

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}

	return &comment, commentCount, nil
}

// Delete removes a comment when the caller authored it or authored the blog,
// decrementing the counter in the same transaction.
func (r *commentRepository) Delete(ctx context.Context, blogID, commentID, userID int64) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var target struct {
		UserID       int64 `db:"user_id"`
		BlogAuthorID int64 `db:"blog_author_id"`
	}
	err = tx.GetContext(ctx, &target, `
		SELECT c.user_id, b.author_id AS blog_author_id
		FROM blog_comments c
		JOIN blogs b ON b.id = c.blog_id
		WHERE c.id = $1 AND c.blog_id = $2
	`, commentID, blogID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get comment: %w", err)
	}

	if userID != target.UserID && userID != target.BlogAuthorID {
		return 0, model.ErrNotCommentAuthor
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM blog_comments WHERE id = $1`, commentID); err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}

	var commentCount int
	err = tx.GetContext(ctx, &commentCount, `
		UPDATE blogs
		SET comment_count = GREATEST(comment_count - 1, 0), updated_at = NOW()
		WHERE id = $1
		RETURNING comment_count
	`, blogID)
	if err != nil {
		return 0, fmt.Errorf("update comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return commentCount, nil
}

// ListByBlogID returns a blog's comments in insertion order with author
// fields joined.
func (r *commentRepository) ListByBlogID(ctx context.Context, blogID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.blog_id, c.user_id, c.content, c.created_at,
		       u.id AS author_id, u.firstname AS author_firstname, u.lastname AS author_lastname,
		       u.username AS author_username, u.profile_picture AS author_picture
		FROM blog_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.blog_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	type commentRow struct {
		ID        int64     `db:"id"`
		BlogID    int64     `db:"blog_id"`
		UserID    int64     `db:"user_id"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`

		AuthorID        int64   `db:"author_id"`
		AuthorFirstname string  `db:"author_firstname"`
		AuthorLastname  string  `db:"author_lastname"`
		AuthorUsername  string  `db:"author_username"`
		AuthorPicture   *string `db:"author_picture"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, blogID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:        row.ID,
			BlogID:    row.BlogID,
			UserID:    row.UserID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			Author: &model.AuthorSummary{
				ID:             row.AuthorID,
				Firstname:      row.AuthorFirstname,
				Lastname:       row.AuthorLastname,
				Username:       row.AuthorUsername,
				ProfilePicture: row.AuthorPicture,
			},
		}
	}
	return comments, nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, blog_id, user_id, content, created_at
		FROM blog_comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}
