// Package server provides the HTTP REST API for EZResume.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/builder"
	"github.com/jonathan/ezresume/internal/onboarding"
)

// Store is the storage surface the session registry needs; *db.DB satisfies
// it.
type Store interface {
	onboarding.Gateway
	builder.Repository
}

type onboardingEntry struct {
	session  *onboarding.Session
	lastUsed time.Time
}

type builderEntry struct {
	session  *builder.Session
	userID   uuid.UUID
	lastUsed time.Time
}

// Sessions is the in-memory registry of live wizard and builder sessions.
// Sessions are created on first authenticated touch and dropped on
// completion or idle eviction; each holds unsaved working state, so eviction
// flushes before discarding.
type Sessions struct {
	store       Store
	quietWindow time.Duration
	idleTimeout time.Duration

	mu      sync.Mutex
	wizards map[uuid.UUID]*onboardingEntry
	editors map[uuid.UUID]*builderEntry

	done chan struct{}
	once sync.Once
}

// NewSessions creates a session registry and starts its idle sweeper.
func NewSessions(store Store, quietWindow, idleTimeout time.Duration) *Sessions {
	s := &Sessions{
		store:       store,
		quietWindow: quietWindow,
		idleTimeout: idleTimeout,
		wizards:     make(map[uuid.UUID]*onboardingEntry),
		editors:     make(map[uuid.UUID]*builderEntry),
		done:        make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Onboarding returns the user's live wizard session, creating one from
// persisted state on first touch.
func (s *Sessions) Onboarding(ctx context.Context, userID uuid.UUID) (*onboarding.Session, error) {
	s.mu.Lock()
	if entry, ok := s.wizards[userID]; ok {
		entry.lastUsed = time.Now()
		session := entry.session
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	// Constructed outside the lock; session loading hits the database.
	session, err := onboarding.NewSession(ctx, s.store, userID, onboarding.WithQuietWindow(s.quietWindow))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.wizards[userID]; ok {
		// Lost the race; keep the first session.
		session.Close()
		entry.lastUsed = time.Now()
		return entry.session, nil
	}
	s.wizards[userID] = &onboardingEntry{session: session, lastUsed: time.Now()}
	return session, nil
}

// DropOnboarding removes the user's wizard session, if any.
func (s *Sessions) DropOnboarding(userID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.wizards[userID]
	delete(s.wizards, userID)
	s.mu.Unlock()
	if ok {
		entry.session.Close()
	}
}

// Builder returns the live edit session for a resume, creating one on first
// touch. Ownership is checked on creation and on every subsequent access.
func (s *Sessions) Builder(ctx context.Context, userID, resumeID uuid.UUID) (*builder.Session, error) {
	s.mu.Lock()
	if entry, ok := s.editors[resumeID]; ok {
		if entry.userID != userID {
			s.mu.Unlock()
			return nil, builder.ErrNotOwner
		}
		entry.lastUsed = time.Now()
		session := entry.session
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	session, err := builder.NewSession(ctx, s.store, userID, resumeID, builder.WithQuietWindow(s.quietWindow))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.editors[resumeID]; ok {
		session.Close()
		entry.lastUsed = time.Now()
		return entry.session, nil
	}
	s.editors[resumeID] = &builderEntry{session: session, userID: userID, lastUsed: time.Now()}
	return session, nil
}

// RenameLive patches the in-memory title of a live edit session so a later
// autosave writes the new title instead of the one loaded at session start.
// No-op when the resume has no live session.
func (s *Sessions) RenameLive(resumeID uuid.UUID, title string) {
	s.mu.Lock()
	entry, ok := s.editors[resumeID]
	s.mu.Unlock()
	if ok {
		entry.session.Update(builder.DataPatch{Title: &title})
	}
}

// DropBuilder removes a resume's edit session, flushing unsaved edits first.
func (s *Sessions) DropBuilder(ctx context.Context, resumeID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.editors[resumeID]
	delete(s.editors, resumeID)
	s.mu.Unlock()
	if ok {
		if err := entry.session.SaveNow(ctx); err != nil {
			log.Printf("[sessions] final save failed (resume=%s): %v", resumeID, err)
		}
		entry.session.Close()
	}
}

// Discard removes a resume's edit session without saving. Used when the
// resume itself is being deleted.
func (s *Sessions) Discard(resumeID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.editors[resumeID]
	delete(s.editors, resumeID)
	s.mu.Unlock()
	if ok {
		entry.session.Close()
	}
}

// Stop halts the idle sweeper and closes all live sessions, flushing any
// pending debounced save first so shutdown never loses edits.
func (s *Sessions) Stop() {
	s.once.Do(func() { close(s.done) })

	s.mu.Lock()
	wizards := s.wizards
	editors := s.editors
	s.wizards = make(map[uuid.UUID]*onboardingEntry)
	s.editors = make(map[uuid.UUID]*builderEntry)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, entry := range wizards {
		if err := entry.session.SaveNow(ctx); err != nil {
			log.Printf("[sessions] shutdown save failed (user=%s): %v", entry.session.UserID(), err)
		}
		entry.session.Close()
	}
	for _, entry := range editors {
		if err := entry.session.SaveNow(ctx); err != nil {
			log.Printf("[sessions] shutdown save failed (resume=%s): %v", entry.session.ResumeID(), err)
		}
		entry.session.Close()
	}
}

// sweep evicts sessions idle past the timeout. Evicted sessions get a final
// flush so a quiet tab never loses edits.
func (s *Sessions) sweep() {
	interval := s.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-s.idleTimeout))
		}
	}
}

func (s *Sessions) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	var staleWizards []*onboardingEntry
	var staleEditors []*builderEntry
	for userID, entry := range s.wizards {
		if entry.lastUsed.Before(cutoff) {
			staleWizards = append(staleWizards, entry)
			delete(s.wizards, userID)
		}
	}
	for resumeID, entry := range s.editors {
		if entry.lastUsed.Before(cutoff) {
			staleEditors = append(staleEditors, entry)
			delete(s.editors, resumeID)
		}
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, entry := range staleWizards {
		if err := entry.session.SaveNow(ctx); err != nil {
			log.Printf("[sessions] eviction save failed (user=%s): %v", entry.session.UserID(), err)
		}
		entry.session.Close()
	}
	for _, entry := range staleEditors {
		if err := entry.session.SaveNow(ctx); err != nil {
			log.Printf("[sessions] eviction save failed (resume=%s): %v", entry.session.ResumeID(), err)
		}
		entry.session.Close()
	}
}
