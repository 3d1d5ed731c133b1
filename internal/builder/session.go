// Package builder manages resume-document edit sessions. A session owns one
// resume's working document, merges edits into it, and autosaves the whole
// blob on a trailing-edge debounce, the same cadence the onboarding wizard
// uses.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/onboarding"
	"github.com/jonathan/ezresume/internal/schemas"
	"github.com/jonathan/ezresume/internal/types"
)

// DefaultQuietWindow matches the onboarding wizard's autosave cadence.
const DefaultQuietWindow = 3 * time.Second

var (
	// ErrResumeNotFound is returned when the resume row does not exist.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrNotOwner is returned when the resume belongs to another user.
	ErrNotOwner = errors.New("resume not owned by user")
	// ErrSaveInProgress is returned when a save is requested while one is
	// already running; the request is dropped, not queued.
	ErrSaveInProgress = errors.New("save already in progress")
)

// Repository is the storage surface a session needs. *db.DB satisfies it.
type Repository interface {
	GetResume(ctx context.Context, resumeID uuid.UUID) (*types.Resume, error)
	GetResumeContent(ctx context.Context, resumeID uuid.UUID) ([]byte, error)
	UpdateResumeContent(ctx context.Context, resumeID uuid.UUID, data *types.ResumeData) error
}

// DataPatch is a partial resume document. Nil fields are left untouched;
// set fields replace the section wholesale (shallow merge, later writes win).
type DataPatch struct {
	Title          *string                      `json:"title,omitempty"`
	Template       *string                      `json:"template,omitempty"`
	Summary        *string                      `json:"summary,omitempty"`
	Contact        *types.ContactInfo           `json:"contact,omitempty"`
	Experience     *[]types.ResumeExperience    `json:"experience,omitempty"`
	Education      *[]types.ResumeEducation     `json:"education,omitempty"`
	Skills         *[]types.ResumeSkill         `json:"skills,omitempty"`
	Projects       *[]types.ResumeProject       `json:"projects,omitempty"`
	Certifications *[]types.ResumeCertification `json:"certifications,omitempty"`
}

func (p DataPatch) apply(data *types.ResumeData) {
	if p.Title != nil {
		data.Title = *p.Title
	}
	if p.Template != nil {
		data.Template = *p.Template
	}
	if p.Summary != nil {
		data.Summary = *p.Summary
	}
	if p.Contact != nil {
		data.Contact = *p.Contact
	}
	if p.Experience != nil {
		data.Experience = *p.Experience
	}
	if p.Education != nil {
		data.Education = *p.Education
	}
	if p.Skills != nil {
		data.Skills = *p.Skills
	}
	if p.Projects != nil {
		data.Projects = *p.Projects
	}
	if p.Certifications != nil {
		data.Certifications = *p.Certifications
	}
}

// Session is one user's edit session over one resume document.
type Session struct {
	resumeID  uuid.UUID
	userID    uuid.UUID
	repo      Repository
	debouncer *onboarding.Debouncer

	mu        sync.Mutex
	data      types.ResumeData
	inFlight  bool
	lastSaved time.Time
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	quietWindow time.Duration
}

// WithQuietWindow overrides the autosave quiet window. Tests shrink it.
func WithQuietWindow(d time.Duration) Option {
	return func(c *sessionConfig) { c.quietWindow = d }
}

// NewSession loads the resume and constructs an edit session over its
// document. A null content blob starts from the default empty document; a
// stored blob that fails schema validation is rejected rather than silently
// edited.
func NewSession(ctx context.Context, repo Repository, userID, resumeID uuid.UUID, opts ...Option) (*Session, error) {
	cfg := sessionConfig{quietWindow: DefaultQuietWindow}
	for _, opt := range opts {
		opt(&cfg)
	}

	resume, err := repo.GetResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, ErrResumeNotFound
	}
	if resume.UserID != userID {
		return nil, ErrNotOwner
	}

	var data types.ResumeData
	if resume.Content == nil {
		data = *types.DefaultResumeData(resume.Title)
	} else {
		raw, err := repo.GetResumeContent(ctx, resumeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load resume content: %w", err)
		}
		if err := schemas.ValidateResumeData(raw); err != nil {
			return nil, fmt.Errorf("stored resume document is invalid: %w", err)
		}
		data = *resume.Content
	}

	s := &Session{
		resumeID: resumeID,
		userID:   userID,
		repo:     repo,
		data:     data,
	}
	s.debouncer = onboarding.NewDebouncer(cfg.quietWindow, s.backgroundSave)
	return s, nil
}

// ResumeID returns the resume this session edits.
func (s *Session) ResumeID() uuid.UUID {
	return s.resumeID
}

// Snapshot returns a copy of the working document.
func (s *Session) Snapshot() types.ResumeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyData(s.data)
}

// LastSaved returns when the document last reached storage; zero if never.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Update merges a partial document into the working copy and schedules the
// debounced autosave.
func (s *Session) Update(patch DataPatch) {
	s.mu.Lock()
	patch.apply(&s.data)
	s.mu.Unlock()
	s.debouncer.Trigger()
}

// SaveNow cancels any pending autosave and persists the document
// immediately.
func (s *Session) SaveNow(ctx context.Context) error {
	s.debouncer.Cancel()
	return s.flush(ctx)
}

// Close cancels any pending autosave.
func (s *Session) Close() {
	s.debouncer.Cancel()
}

func (s *Session) backgroundSave() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.flush(ctx); err != nil {
		if errors.Is(err, ErrSaveInProgress) {
			log.Printf("[builder] save already in progress, skipping (resume=%s)", s.resumeID)
			return
		}
		log.Printf("[builder] autosave failed (resume=%s): %v", s.resumeID, err)
	}
}

// flush persists the working document as a whole blob. The document is read
// at flush time, so edits made after scheduling are included. The in-flight
// guard drops concurrent requests instead of queuing them.
func (s *Session) flush(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.inFlight = true
	data := copyData(s.data)
	s.mu.Unlock()

	err := s.repo.UpdateResumeContent(ctx, s.resumeID, &data)

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.lastSaved = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to save resume document: %w", err)
	}
	return nil
}

func copyData(data types.ResumeData) types.ResumeData {
	out := data
	out.Experience = append([]types.ResumeExperience(nil), data.Experience...)
	out.Education = append([]types.ResumeEducation(nil), data.Education...)
	out.Skills = append([]types.ResumeSkill(nil), data.Skills...)
	out.Projects = append([]types.ResumeProject(nil), data.Projects...)
	out.Certifications = append([]types.ResumeCertification(nil), data.Certifications...)
	return out
}
