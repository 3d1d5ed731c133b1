package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/types"
)

// Gateway is the slice of the persistence layer the wizard needs. *db.DB
// satisfies it. Collection writers are whole-collection replace operations;
// a future implementation could swap in per-row upsert semantics without
// changing callers.
type Gateway interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, info types.PersonalInfo) error
	UpdateOnboardingStep(ctx context.Context, userID uuid.UUID, step int) error
	CompleteOnboarding(ctx context.Context, userID uuid.UUID) error

	ReplaceExperiences(ctx context.Context, userID uuid.UUID, experiences []types.Experience) error
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	ReplaceEducation(ctx context.Context, userID uuid.UUID, education []types.Education) error
	ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error)
	ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []types.Skill) error
	ListSkills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error)
	ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []types.Project) error
	ListProjects(ctx context.Context, userID uuid.UUID) ([]types.Project, error)
	ReplaceCertifications(ctx context.Context, userID uuid.UUID, certifications []types.Certification) error
	ListCertifications(ctx context.Context, userID uuid.UUID) ([]types.Certification, error)
}

// ErrSaveInProgress is returned when a flush is requested while another is in
// flight. The request is dropped, not queued; the dropped request's data is
// captured by the next flush because the store is re-read at flush time.
var ErrSaveInProgress = errors.New("save already in progress")

// Flusher pushes the working aggregate to the gateway. At most one flush runs
// at a time; that single-flight guard covers every caller, including the
// completion path.
type Flusher struct {
	gateway Gateway
	store   *Store
	userID  uuid.UUID

	mu       sync.Mutex
	inFlight bool
}

// NewFlusher creates a flusher bound to one user's store.
func NewFlusher(gateway Gateway, store *Store, userID uuid.UUID) *Flusher {
	return &Flusher{gateway: gateway, store: store, userID: userID}
}

// Flush snapshots the store and replaces each remote collection in sequence.
// Collections flush one at a time so a failure in one cannot corrupt a
// sibling mid-write; there is no cross-collection transaction, so a failure
// leaves the remote copy partially updated until the next successful flush
// reconciles it.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSaveInProgress
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	snap := f.store.Snapshot()

	if !snap.PersonalInfo.IsEmpty() {
		if err := f.gateway.UpsertProfile(ctx, f.userID, snap.PersonalInfo); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}
	if err := f.gateway.ReplaceExperiences(ctx, f.userID, snap.Experiences); err != nil {
		return fmt.Errorf("failed to save experiences: %w", err)
	}
	if err := f.gateway.ReplaceEducation(ctx, f.userID, snap.Education); err != nil {
		return fmt.Errorf("failed to save education: %w", err)
	}
	if err := f.gateway.ReplaceSkills(ctx, f.userID, snap.Skills); err != nil {
		return fmt.Errorf("failed to save skills: %w", err)
	}
	if err := f.gateway.ReplaceProjects(ctx, f.userID, snap.Projects); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	if err := f.gateway.ReplaceCertifications(ctx, f.userID, snap.Certifications); err != nil {
		return fmt.Errorf("failed to save certifications: %w", err)
	}
	return nil
}
