package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"blognest/internal/model"
)

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

// blogRow scans a blog joined with its author's display fields.
type blogRow struct {
	ID            int64     `db:"id"`
	AuthorID      int64     `db:"author_id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	CoverImageURL *string   `db:"cover_image_url"`
	CoverImageKey *string   `db:"cover_image_key"`
	LikeCount     int       `db:"like_count"`
	CommentCount  int       `db:"comment_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	AuthorFirstname string  `db:"author_firstname"`
	AuthorLastname  string  `db:"author_lastname"`
	AuthorUsername  string  `db:"author_username"`
	AuthorPicture   *string `db:"author_picture"`
}

func (row blogRow) toBlog() model.Blog {
	return model.Blog{
		ID:            row.ID,
		AuthorID:      row.AuthorID,
		Title:         row.Title,
		Content:       row.Content,
		CoverImageURL: row.CoverImageURL,
		CoverImageKey: row.CoverImageKey,
		LikeCount:     row.LikeCount,
		CommentCount:  row.CommentCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Author: &model.AuthorSummary{
			ID:             row.AuthorID,
			Firstname:      row.AuthorFirstname,
			Lastname:       row.AuthorLastname,
			Username:       row.AuthorUsername,
			ProfilePicture: row.AuthorPicture,
		},
	}
}

const blogSelect = `
	SELECT b.id, b.author_id, b.title, b.content, b.cover_image_url, b.cover_image_key,
	       b.like_count, b.comment_count, b.created_at, b.updated_at,
	       u.firstname AS author_firstname, u.lastname AS author_lastname,
	       u.username AS author_username, u.profile_picture AS author_picture
	FROM blogs b
	JOIN users u ON u.id = b.author_id
`

// Create inserts a new blog.
func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `
		INSERT INTO blogs (author_id, title, content, cover_image_url, cover_image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, like_count, comment_count, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		blog.AuthorID,
		blog.Title,
		blog.Content,
		blog.CoverImageURL,
		blog.CoverImageKey,
	)
	if err := row.Scan(&blog.ID, &blog.LikeCount, &blog.CommentCount, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

// GetByID retrieves a single blog with its author's display fields.
func (r *blogRepository) GetByID(ctx context.Context, blogID int64) (*model.Blog, error) {
	var row blogRow
	err := r.db.GetContext(ctx, &row, blogSelect+` WHERE b.id = $1`, blogID)
	if err == sql.ErrNoRows {
		return nil, model.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}

	blog := row.toBlog()
	return &blog, nil
}

// List returns all blogs, newest first, with author fields joined.
func (r *blogRepository) List(ctx context.Context) ([]model.Blog, error) {
	var rows []blogRow
	err := r.db.SelectContext(ctx, &rows, blogSelect+` ORDER BY b.created_at DESC, b.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	blogs := make([]model.Blog, len(rows))
	for i, row := range rows {
		blogs[i] = row.toBlog()
	}
	return blogs, nil
}

// ListByAuthor returns one author's blogs, newest first.
func (r *blogRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Blog, error) {
	var rows []blogRow
	err := r.db.SelectContext(ctx, &rows, blogSelect+` WHERE b.author_id = $1 ORDER BY b.created_at DESC, b.id DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list blogs by author: %w", err)
	}

	blogs := make([]model.Blog, len(rows))
	for i, row := range rows {
		blogs[i] = row.toBlog()
	}
	return blogs, nil
}

// Update applies a partial update: only non-nil fields change. COALESCE
// keeps untouched columns as they are.
func (r *blogRepository) Update(ctx context.Context, blogID int64, update model.BlogUpdate) (*model.Blog, error) {
	query := `
		UPDATE blogs
		SET title = COALESCE($1, title),
		    content = COALESCE($2, content),
		    cover_image_url = COALESCE($3, cover_image_url),
		    cover_image_key = COALESCE($4, cover_image_key),
		    updated_at = NOW()
		WHERE id = $5
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		update.Title,
		update.Content,
		update.CoverImageURL,
		update.CoverImageKey,
		blogID,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}

	return r.GetByID(ctx, blogID)
}

// Delete removes a blog. Likes and comments go with it via ON DELETE CASCADE.
func (r *blogRepository) Delete(ctx context.Context, blogID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, blogID)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrBlogNotFound
	}
	return nil
}

// ToggleLike flips the (blogID, userID) like in a single transaction. The
// DELETE decides the branch: when it removes a row the toggle is an unlike,
// otherwise an insert guarded by ON CONFLICT makes it a like. The counter
// moves in the same transaction and is floored at zero, so it can never
// drift from the rows.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID int64) (*model.LikeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the blog row first: a missing blog fails here as not-found
	// instead of surfacing later as a foreign-key violation, and
	// concurrent toggles on the same blog serialize on this lock.
	var lockedID int64
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM blogs WHERE id = $1 FOR UPDATE`, blogID)
	if err == sql.ErrNoRows {
		return nil, model.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock blog: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID)
	if err != nil {
		return nil, fmt.Errorf("delete like: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}

	liked := false
	delta := -1
	if removed == 0 {
		result, err = tx.ExecContext(ctx, `
			INSERT INTO blog_likes (blog_id, user_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (blog_id, user_id) DO NOTHING
		`, blogID, userID)
		if err != nil {
			return nil, fmt.Errorf("insert like: %w", err)
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("get rows affected: %w", err)
		}
		if inserted == 0 {
			// The like row already exists; leave the counter alone.
			delta = 0
			liked = true
		} else {
			delta = 1
			liked = true
		}
	}

	var likeCount int
	err = tx.GetContext(ctx, &likeCount, `
		UPDATE blogs
		SET like_count = GREATEST(like_count + $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING like_count
	`, delta, blogID)
	if err == sql.ErrNoRows {
		return nil, model.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &model.LikeResult{LikesCount: likeCount, IsLiked: liked}, nil
}

// IsLiked reports whether the user has liked the blog.
func (r *blogRepository) IsLiked(ctx context.Context, blogID, userID int64) (bool, error) {
	var liked bool
	err := r.db.GetContext(ctx, &liked,
		`SELECT EXISTS(SELECT 1 FROM blog_likes WHERE blog_id = $1 AND user_id = $2)`, blogID, userID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// GetCounts reads the denormalized counters for one blog.
func (r *blogRepository) GetCounts(ctx context.Context, blogID int64) (int, int, error) {
	var counts struct {
		LikeCount    int `db:"like_count"`
		CommentCount int `db:"comment_count"`
	}
	err := r.db.GetContext(ctx, &counts,
		`SELECT like_count, comment_count FROM blogs WHERE id = $1`, blogID)
	if err == sql.ErrNoRows {
		return 0, 0, model.ErrBlogNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get blog counts: %w", err)
	}
	return counts.LikeCount, counts.CommentCount, nil
}
