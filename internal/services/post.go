package services

import (
	"context"
	"errors"
	"time"

	"github.com/devlink-social/apiserver/types"
	"github.com/google/uuid"
)

// ErrNotOwner is returned when a user tries to delete a post or comment
// they did not author.
var ErrNotOwner = errors.New("user not authorized")

// ErrAlreadyLiked is returned when a user likes a post twice.
var ErrAlreadyLiked = errors.New("post already liked")

// ErrNotLiked is returned when a user unlikes a post they never liked.
var ErrNotLiked = errors.New("post has not yet been liked")

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	GetByID(ctx context.Context, id int) (types.Post, error)
	List(ctx context.Context) ([]types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
}

// UserGetter loads the author snapshot for new posts and comments.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// PostService encapsulates post use-cases: creation with an author
// snapshot, ownership-checked deletion, and the like/comment mutations.
type PostService struct {
	repo   PostRepository
	users  UserGetter
	events *ActivityPublisher
}

func NewPostService(repo PostRepository, users UserGetter, events *ActivityPublisher) *PostService {
	return &PostService{repo: repo, users: users, events: events}
}

func (s *PostService) Create(ctx context.Context, userID int, text string) (types.Post, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.Post{}, err
	}

	post, err := s.repo.Create(ctx, types.Post{
		UserID:   userID,
		Text:     text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []types.Like{},
		Comments: []types.Comment{},
	})
	if err != nil {
		return types.Post{}, err
	}

	s.events.Publish(ctx, Event{Type: EventPostCreated, UserID: userID, PostID: post.ID})
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id int) (types.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context) ([]types.Post, error) {
	return s.repo.List(ctx)
}

// Delete removes a post. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, postID, userID int) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, postID)
}

// Like prepends a like entry for the user. At most one like per user.
func (s *PostService) Like(ctx context.Context, postID, userID int) (types.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return types.Post{}, err
	}
	if post.LikedBy(userID) {
		return types.Post{}, ErrAlreadyLiked
	}

	post.Likes = append([]types.Like{{UserID: userID}}, post.Likes...)
	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return types.Post{}, err
	}

	s.events.Publish(ctx, Event{Type: EventPostLiked, UserID: userID, PostID: postID})
	return updated, nil
}

// Unlike removes the user's like entry, keeping the order of the rest.
func (s *PostService) Unlike(ctx context.Context, postID, userID int) (types.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return types.Post{}, err
	}
	if !post.LikedBy(userID) {
		return types.Post{}, ErrNotLiked
	}

	likes := make([]types.Like, 0, len(post.Likes)-1)
	for _, like := range post.Likes {
		if like.UserID != userID {
			likes = append(likes, like)
		}
	}
	post.Likes = likes

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return types.Post{}, err
	}

	s.events.Publish(ctx, Event{Type: EventPostUnliked, UserID: userID, PostID: postID})
	return updated, nil
}

// AddComment prepends a comment carrying the commenter's snapshot.
func (s *PostService) AddComment(ctx context.Context, postID, userID int, text string) (types.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return types.Post{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.Post{}, err
	}

	comment := types.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now(),
	}
	post.Comments = append([]types.Comment{comment}, post.Comments...)

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return types.Post{}, err
	}

	s.events.Publish(ctx, Event{Type: EventPostCommented, UserID: userID, PostID: postID})
	return updated, nil
}

// RemoveComment removes a comment by its local id. Only the comment's
// author may remove it.
func (s *PostService) RemoveComment(ctx context.Context, postID, userID int, commentID string) (types.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return types.Post{}, err
	}

	index := -1
	for i, comment := range post.Comments {
		if comment.ID == commentID {
			index = i
			break
		}
	}
	if index < 0 {
		return types.Post{}, ErrEntryNotFound
	}
	if post.Comments[index].UserID != userID {
		return types.Post{}, ErrNotOwner
	}

	post.Comments = append(post.Comments[:index], post.Comments[index+1:]...)
	return s.repo.Update(ctx, post)
}
