package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ezresume/internal/types"
)

// DefaultQuietWindow is how long edits must be quiet before the debounced
// flush fires.
const DefaultQuietWindow = 3 * time.Second

// ErrOnboardingComplete is returned by NewSession when the user has already
// finished onboarding; the caller should redirect away instead of entering
// any step state.
var ErrOnboardingComplete = errors.New("onboarding already completed")

// ErrNotAtFinalStep is returned by Complete when the cursor has not reached
// the last step yet; completing early would lock the user out of the
// remaining steps.
var ErrNotAtFinalStep = errors.New("onboarding is not at the final step")

// Session is one user's onboarding wizard: the working data store, the
// debounced flush scheduler and the step cursor. It is constructed once per
// wizard invocation and passed explicitly to its consumers; there is no
// process-wide shared state.
type Session struct {
	userID    uuid.UUID
	gateway   Gateway
	store     *Store
	flusher   *Flusher
	debouncer *Debouncer

	mu        sync.Mutex
	step      int
	completed bool
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	quietWindow time.Duration
}

// WithQuietWindow overrides the debounce quiet window. Tests shrink it.
func WithQuietWindow(d time.Duration) Option {
	return func(c *sessionConfig) { c.quietWindow = d }
}

// NewSession loads the user's persisted state and constructs a wizard
// session resuming at the stored step cursor. A missing profile row means a
// fresh start at step 1; a completed profile yields ErrOnboardingComplete.
func NewSession(ctx context.Context, gateway Gateway, userID uuid.UUID, opts ...Option) (*Session, error) {
	cfg := sessionConfig{quietWindow: DefaultQuietWindow}
	for _, opt := range opts {
		opt(&cfg)
	}

	profile, err := gateway.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil && profile.OnboardingCompleted {
		return nil, ErrOnboardingComplete
	}

	data, err := loadData(ctx, gateway, userID, profile)
	if err != nil {
		return nil, err
	}

	step := 1
	if profile != nil && profile.OnboardingCurrentStep >= 1 && profile.OnboardingCurrentStep <= StepCount {
		step = profile.OnboardingCurrentStep
	}

	s := &Session{
		userID:  userID,
		gateway: gateway,
		step:    step,
	}
	s.store = NewStore(data, s.scheduleSave)
	s.flusher = NewFlusher(gateway, s.store, userID)
	s.debouncer = NewDebouncer(cfg.quietWindow, s.backgroundSave)
	return s, nil
}

// loadData fetches the entity collections concurrently; nothing writes during
// a load so the reads are independent.
func loadData(ctx context.Context, gateway Gateway, userID uuid.UUID, profile *types.Profile) (Data, error) {
	var data Data
	if profile != nil {
		data.PersonalInfo = types.FromProfile(profile)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Experiences, err = gateway.ListExperiences(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Education, err = gateway.ListEducation(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Skills, err = gateway.ListSkills(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Projects, err = gateway.ListProjects(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Certifications, err = gateway.ListCertifications(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, fmt.Errorf("failed to load onboarding data: %w", err)
	}
	return data, nil
}

// UserID returns the owning user.
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// Store returns the working data store. Mutations on it schedule the
// debounced background save.
func (s *Session) Store() *Store {
	return s.store
}

// Step returns the current step cursor.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Completed reports whether Complete has succeeded.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// scheduleSave is the store's change observer.
func (s *Session) scheduleSave() {
	s.debouncer.Trigger()
}

// backgroundSave runs when the debounce window elapses. Failures are logged
// and swallowed: auto-save must never block the wizard, and the data remains
// in memory for the next flush. A drop due to an in-flight flush is routine.
func (s *Session) backgroundSave() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.flusher.Flush(ctx); err != nil {
		if errors.Is(err, ErrSaveInProgress) {
			log.Printf("[onboarding] save already in progress, skipping (user=%s)", s.userID)
			return
		}
		log.Printf("[onboarding] auto-save failed (user=%s): %v", s.userID, err)
	}
}

// SaveNow cancels any pending debounced save and flushes immediately. Used
// for deterministic checkpoints; the error is the caller's to handle.
func (s *Session) SaveNow(ctx context.Context) error {
	s.debouncer.Cancel()
	return s.flusher.Flush(ctx)
}

// checkpoint flushes on a step transition; failures are logged, never
// surfaced, so navigation is never blocked.
func (s *Session) checkpoint(ctx context.Context) {
	if err := s.SaveNow(ctx); err != nil && !errors.Is(err, ErrSaveInProgress) {
		log.Printf("[onboarding] checkpoint save failed (user=%s): %v", s.userID, err)
	}
}

// persistStep writes the cursor; the local state is already advanced
// (optimistic), so a write failure is logged and ignored.
func (s *Session) persistStep(ctx context.Context, step int) {
	if err := s.gateway.UpdateOnboardingStep(ctx, s.userID, step); err != nil {
		log.Printf("[onboarding] failed to persist step %d (user=%s): %v", step, s.userID, err)
	}
}

// Next advances to the following step after a checkpoint flush. A no-op at
// the last step. Validation, when a step requires it, is the caller's
// responsibility before invoking Next.
func (s *Session) Next(ctx context.Context) {
	s.mu.Lock()
	if s.step >= StepCount {
		s.mu.Unlock()
		return
	}
	s.step++
	step := s.step
	s.mu.Unlock()

	s.checkpoint(ctx)
	s.persistStep(ctx, step)
}

// Back returns to the previous step. A no-op at step 1.
func (s *Session) Back(ctx context.Context) {
	s.mu.Lock()
	if s.step <= 1 {
		s.mu.Unlock()
		return
	}
	s.step--
	step := s.step
	s.mu.Unlock()

	s.persistStep(ctx, step)
}

// Skip advances without any validation, after a best-effort flush. Optional
// sections must never trap the user.
func (s *Session) Skip(ctx context.Context) {
	s.mu.Lock()
	if s.step >= StepCount {
		s.mu.Unlock()
		return
	}
	s.step++
	step := s.step
	s.mu.Unlock()

	s.checkpoint(ctx)
	s.persistStep(ctx, step)
}

// Complete performs the final full flush and marks onboarding finished. It
// is the terminal transition from the last step: a cursor anywhere earlier
// gets ErrNotAtFinalStep. This is also the one path where a flush failure is
// surfaced: silently completing without saved data would leave the profile
// looking finished when it is not. The single-flight guard applies, so a
// double-submit gets ErrSaveInProgress instead of racing a second full flush.
func (s *Session) Complete(ctx context.Context) error {
	s.mu.Lock()
	atFinal := s.step == StepCount
	s.mu.Unlock()
	if !atFinal {
		return ErrNotAtFinalStep
	}

	s.debouncer.Cancel()
	if err := s.flusher.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save onboarding data: %w", err)
	}
	if err := s.gateway.CompleteOnboarding(ctx, s.userID); err != nil {
		return fmt.Errorf("failed to mark onboarding complete: %w", err)
	}
	s.mu.Lock()
	s.completed = true
	s.mu.Unlock()
	return nil
}

// Close cancels any pending debounced save. Edits not yet flushed are
// discarded with the session, matching the working copy's lifecycle.
func (s *Session) Close() {
	s.debouncer.Cancel()
}
