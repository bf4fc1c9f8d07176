package services

import (
	"context"
	"testing"
	"time"

	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPreservesEntriesAcrossUpdates(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.Upsert(context.Background(), profileForUser(1))
	require.NoError(t, err)

	_, err = svc.AddExperience(context.Background(), 1, types.Experience{
		Title:   "Engineer",
		Company: "Initech",
		From:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Updating descriptive fields must not clobber the entry lists.
	updated, err := svc.Upsert(context.Background(), types.Profile{
		UserID: 1,
		Status: "Senior Developer",
		Skills: []string{"Go", "SQL"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Experience, 1)
	assert.Equal(t, "Initech", updated.Experience[0].Company)
	assert.Equal(t, "Senior Developer", updated.Status)
}

func TestAddExperiencePrependsWithFreshID(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.Upsert(context.Background(), profileForUser(1))
	require.NoError(t, err)

	first, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "First", Company: "A"})
	require.NoError(t, err)
	second, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "Second", Company: "B"})
	require.NoError(t, err)

	require.Len(t, second.Experience, 2)
	assert.Equal(t, "Second", second.Experience[0].Title)
	assert.Equal(t, "First", second.Experience[1].Title)
	assert.NotEmpty(t, first.Experience[0].ID)
	assert.NotEqual(t, second.Experience[0].ID, second.Experience[1].ID)
}

func TestAddThenRemoveExperienceRestoresList(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.Upsert(context.Background(), profileForUser(1))
	require.NoError(t, err)

	before, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "Keep A", Company: "A"})
	require.NoError(t, err)
	before, err = svc.AddExperience(context.Background(), 1, types.Experience{Title: "Keep B", Company: "B"})
	require.NoError(t, err)

	added, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "Temporary", Company: "C"})
	require.NoError(t, err)

	after, err := svc.RemoveExperience(context.Background(), 1, added.Experience[0].ID)
	require.NoError(t, err)

	assert.Equal(t, before.Experience, after.Experience)
}

func TestRemoveExperienceUnknownID(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.Upsert(context.Background(), profileForUser(1))
	require.NoError(t, err)

	added, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "Only", Company: "A"})
	require.NoError(t, err)

	_, err = svc.RemoveExperience(context.Background(), 1, "no-such-id")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// The list is untouched by the failed removal.
	current, err := svc.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, added.Experience, current.Experience)
}

func TestRemoveEducationPreservesOrder(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(repo)

	_, err := svc.Upsert(context.Background(), profileForUser(1))
	require.NoError(t, err)

	for _, school := range []string{"First", "Middle", "Last"} {
		_, err = svc.AddEducation(context.Background(), 1, types.Education{School: school, Degree: "BSc", FieldOfStudy: "CS"})
		require.NoError(t, err)
	}

	current, err := svc.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, current.Education, 3)

	after, err := svc.RemoveEducation(context.Background(), 1, current.Education[1].ID)
	require.NoError(t, err)

	require.Len(t, after.Education, 2)
	assert.Equal(t, "Last", after.Education[0].School)
	assert.Equal(t, "First", after.Education[1].School)
}

func TestMutationsWithoutProfile(t *testing.T) {
	svc := NewProfileService(newMemProfileRepo())

	_, err := svc.AddExperience(context.Background(), 1, types.Experience{Title: "X", Company: "Y"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.RemoveEducation(context.Background(), 1, "some-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
