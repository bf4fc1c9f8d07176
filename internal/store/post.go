package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/devlink-social/apiserver/types"
)

// PostRepository handles persistence for posts. Likes and comments are
// JSON columns holding ordered arrays.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, text, name, avatar, likes, comments, created_at, updated_at`

func (r *PostRepository) GetByID(ctx context.Context, id int) (types.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1`
	post, err := scanPostRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

// List returns all posts, most recent first.
func (r *PostRepository) List(ctx context.Context) ([]types.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		post, err := scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	likesJSON, err := json.Marshal(post.Likes)
	if err != nil {
		return types.Post{}, err
	}
	commentsJSON, err := json.Marshal(post.Comments)
	if err != nil {
		return types.Post{}, err
	}

	const query = `
		INSERT INTO posts (user_id, text, name, avatar, likes, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.UserID,
		post.Text,
		post.Name,
		post.Avatar,
		likesJSON,
		commentsJSON,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// Update persists the mutable parts of a post: its like and comment arrays.
func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	post.UpdatedAt = time.Now()

	likesJSON, err := json.Marshal(post.Likes)
	if err != nil {
		return types.Post{}, err
	}
	commentsJSON, err := json.Marshal(post.Comments)
	if err != nil {
		return types.Post{}, err
	}

	const query = `
		UPDATE posts
		SET likes = $1,
			comments = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, likesJSON, commentsJSON, post.UpdatedAt, post.ID)
	if err != nil {
		return types.Post{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Post{}, err
	}
	if affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUserID removes every post authored by the user. Used by account
// deletion; removing zero posts is not an error there.
func (r *PostRepository) DeleteByUserID(ctx context.Context, userID int) error {
	const query = `DELETE FROM posts WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func scanPostRow(row rowScanner) (types.Post, error) {
	var post types.Post
	var likesJSON, commentsJSON []byte
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Text,
		&post.Name,
		&post.Avatar,
		&likesJSON,
		&commentsJSON,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return types.Post{}, err
	}

	_ = json.Unmarshal(likesJSON, &post.Likes)
	_ = json.Unmarshal(commentsJSON, &post.Comments)
	return post, nil
}
