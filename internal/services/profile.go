package services

import (
	"context"
	"errors"

	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
	"github.com/google/uuid"
)

// ErrEntryNotFound is returned when an experience, education, or comment
// entry id does not exist on the loaded record.
var ErrEntryNotFound = errors.New("entry not found")

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (types.Profile, error)
	List(ctx context.Context) ([]types.Profile, error)
	Upsert(ctx context.Context, profile types.Profile) (types.Profile, error)
	DeleteByUserID(ctx context.Context, userID int) error
}

// ProfileService encapsulates profile use-cases.
type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]types.Profile, error) {
	return s.repo.List(ctx)
}

// Upsert creates or replaces the descriptive fields of the user's
// profile. Experience and education entries are owned by their dedicated
// operations and survive the upsert untouched.
func (s *ProfileService) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	existing, err := s.repo.GetByUserID(ctx, profile.UserID)
	switch {
	case err == nil:
		profile.Experience = existing.Experience
		profile.Education = existing.Education
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, store.ErrNotFound):
		profile.Experience = []types.Experience{}
		profile.Education = []types.Education{}
	default:
		return types.Profile{}, err
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	return s.repo.Upsert(ctx, profile)
}

// AddExperience prepends an entry with a freshly generated local id.
func (s *ProfileService) AddExperience(ctx context.Context, userID int, entry types.Experience) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}

	entry.ID = uuid.NewString()
	profile.Experience = append([]types.Experience{entry}, profile.Experience...)
	return s.repo.Upsert(ctx, profile)
}

// RemoveExperience removes the entry with the given local id, keeping the
// order of the remaining entries.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID int, entryID string) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}

	index := -1
	for i, entry := range profile.Experience {
		if entry.ID == entryID {
			index = i
			break
		}
	}
	if index < 0 {
		return types.Profile{}, ErrEntryNotFound
	}

	profile.Experience = append(profile.Experience[:index], profile.Experience[index+1:]...)
	return s.repo.Upsert(ctx, profile)
}

// AddEducation prepends an entry with a freshly generated local id.
func (s *ProfileService) AddEducation(ctx context.Context, userID int, entry types.Education) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}

	entry.ID = uuid.NewString()
	profile.Education = append([]types.Education{entry}, profile.Education...)
	return s.repo.Upsert(ctx, profile)
}

// RemoveEducation removes the entry with the given local id, keeping the
// order of the remaining entries.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID int, entryID string) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}

	index := -1
	for i, entry := range profile.Education {
		if entry.ID == entryID {
			index = i
			break
		}
	}
	if index < 0 {
		return types.Profile{}, ErrEntryNotFound
	}

	profile.Education = append(profile.Education[:index], profile.Education[index+1:]...)
	return s.repo.Upsert(ctx, profile)
}
