package services

import (
	"context"
	"errors"

	"github.com/devlink-social/apiserver/internal/gravatar"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned when registering an email that already has
// an account.
var ErrEmailTaken = errors.New("user already exists")

// ErrInvalidCredentials is returned for any failed login. The same value
// covers an unknown email and a wrong password so the response does not
// reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateAvatar(ctx context.Context, id int, avatar string) error
	Delete(ctx context.Context, id int) error
}

// ProfileRemover deletes the profile owned by a user.
type ProfileRemover interface {
	DeleteByUserID(ctx context.Context, userID int) error
}

// PostRemover deletes all posts authored by a user.
type PostRemover interface {
	DeleteByUserID(ctx context.Context, userID int) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo     UserRepository
	profiles ProfileRemover
	posts    PostRemover
	events   *ActivityPublisher
}

func NewUserService(repo UserRepository, profiles ProfileRemover, posts PostRemover, events *ActivityPublisher) *UserService {
	return &UserService{repo: repo, profiles: profiles, posts: posts, events: events}
}

// Register creates an account with a bcrypt password hash and a gravatar
// avatar URL derived from the email.
func (s *UserService) Register(ctx context.Context, name, email, password string) (types.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         name,
		Email:        email,
		Avatar:       gravatar.URL(email),
		PasswordHash: string(hashed),
	})
	if err != nil {
		// The existence check above can race with a concurrent
		// registration; the unique index is the authority.
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}

	s.events.Publish(ctx, Event{Type: EventUserRegistered, UserID: user.ID})
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetAvatar records the URL of a freshly uploaded avatar image.
func (s *UserService) SetAvatar(ctx context.Context, id int, avatarURL string) error {
	return s.repo.UpdateAvatar(ctx, id, avatarURL)
}

// DeleteAccount removes the user's posts, profile, and account, in that
// order. A missing profile is not an error: not every account has one.
func (s *UserService) DeleteAccount(ctx context.Context, userID int) error {
	if err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return s.repo.Delete(ctx, userID)
}
