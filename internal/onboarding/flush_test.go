package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ezresume/internal/types"
)

func TestFlusher_SingleFlight(t *testing.T) {
	gw := newFakeGateway()
	gw.replaceDelay = 50 * time.Millisecond
	store := NewStore(Data{}, nil)
	store.AddExperience(types.ExperienceInput{CompanyName: "Acme", JobTitle: "Engineer", StartDate: "2020-01"})

	f := NewFlusher(gw, store, uuid.New())

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.Flush(context.Background())
		}(i)
	}
	wg.Wait()

	var dropped, succeeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSaveInProgress):
			dropped++
		default:
			t.Fatalf("unexpected flush error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one flush should run")
	assert.Equal(t, 2, dropped, "concurrent requests should be dropped, not queued")
	assert.Equal(t, 1, gw.maxActive, "no two replaces may overlap")
}

func TestFlusher_IdempotentReplace(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(Data{}, nil)
	id := types.PersistedID(uuid.New())
	store.UpdateExperience(id, types.ExperiencePatch{}) // no-op on empty store
	store.AddExperience(types.ExperienceInput{CompanyName: "Acme", JobTitle: "Engineer", StartDate: "2020-01"})
	store.AddSkill(types.SkillInput{SkillName: "Go", SkillCategory: types.SkillTechnical})

	f := NewFlusher(gw, store, uuid.New())

	require.NoError(t, f.Flush(context.Background()))
	first := append([]types.Experience(nil), gw.experiences...)
	firstSkills := append([]types.Skill(nil), gw.skills...)

	// Flushing unchanged state again leaves the remote content equal. The
	// fake reassigns ids for temporary entities the way the database would,
	// so compare field content.
	require.NoError(t, f.Flush(context.Background()))
	require.Len(t, gw.experiences, len(first))
	for i := range first {
		assert.Equal(t, first[i].CompanyName, gw.experiences[i].CompanyName)
		assert.Equal(t, first[i].JobTitle, gw.experiences[i].JobTitle)
		assert.Equal(t, first[i].OrderIndex, gw.experiences[i].OrderIndex)
	}
	require.Len(t, gw.skills, len(firstSkills))
	assert.Equal(t, firstSkills[0].SkillName, gw.skills[0].SkillName)
}

func TestFlusher_TemporaryIDTranslation(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(Data{}, nil)
	tempID := store.AddExperience(types.ExperienceInput{
		CompanyName: "Initech",
		JobTitle:    "Developer",
		StartDate:   "2021-06",
		Description: "TPS reports",
	})
	require.True(t, tempID.IsTemporary())

	userID := uuid.New()
	f := NewFlusher(gw, store, userID)
	require.NoError(t, f.Flush(context.Background()))

	// The insert omitted the id; the gateway assigned a real one.
	assert.Equal(t, 1, gw.insertedWithoutID)

	reloaded, err := gw.ListExperiences(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.False(t, reloaded[0].ID.IsTemporary())
	assert.False(t, reloaded[0].ID.IsZero())
	assert.Equal(t, "Initech", reloaded[0].CompanyName)
	assert.Equal(t, "Developer", reloaded[0].JobTitle)
	assert.Equal(t, "TPS reports", reloaded[0].Description)
}

func TestFlusher_OrderIndexRecomputedFromPosition(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(Data{}, nil)
	first := store.AddExperience(types.ExperienceInput{CompanyName: "First", JobTitle: "A", StartDate: "2019-01"})
	store.AddExperience(types.ExperienceInput{CompanyName: "Second", JobTitle: "B", StartDate: "2020-01"})

	f := NewFlusher(gw, store, uuid.New())
	require.NoError(t, f.Flush(context.Background()))
	assert.Equal(t, 0, gw.experiences[0].OrderIndex)
	assert.Equal(t, "First", gw.experiences[0].CompanyName)

	// Removing the head shifts positions; the next flush re-derives the
	// index from the array.
	store.RemoveExperience(first)
	require.NoError(t, f.Flush(context.Background()))
	require.Len(t, gw.experiences, 1)
	assert.Equal(t, 0, gw.experiences[0].OrderIndex)
	assert.Equal(t, "Second", gw.experiences[0].CompanyName)
}

func TestFlusher_FailurePropagates(t *testing.T) {
	gw := newFakeGateway()
	gw.failReplace = errors.New("connection reset")
	store := NewStore(Data{}, nil)
	store.AddExperience(types.ExperienceInput{CompanyName: "Acme", JobTitle: "Engineer", StartDate: "2020-01"})

	f := NewFlusher(gw, store, uuid.New())
	err := f.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save experiences")

	// The guard is released after a failure; the next flush proceeds.
	gw.failReplace = nil
	assert.NoError(t, f.Flush(context.Background()))
}

func TestFlusher_SkipsEmptyPersonalInfo(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(Data{}, nil)

	f := NewFlusher(gw, store, uuid.New())
	require.NoError(t, f.Flush(context.Background()))
	assert.Nil(t, gw.profile, "empty personal info must not create a profile row")
}
