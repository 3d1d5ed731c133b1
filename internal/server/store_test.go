package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/ezresume/internal/config"
	"github.com/jonathan/ezresume/internal/db"
	"github.com/jonathan/ezresume/internal/types"
)

var errTestBoom = errors.New("boom")

// fakeStore is an in-memory Datastore plus UserStore for handler tests.
type fakeStore struct {
	mu sync.Mutex

	profiles       map[uuid.UUID]*types.Profile
	experiences    map[uuid.UUID][]types.Experience
	education      map[uuid.UUID][]types.Education
	skills         map[uuid.UUID][]types.Skill
	projects       map[uuid.UUID][]types.Project
	certifications map[uuid.UUID][]types.Certification

	resumes   map[uuid.UUID]*types.Resume
	resumeRaw map[uuid.UUID][]byte

	users map[uuid.UUID]*db.User

	replaceDelay time.Duration
	replaceErr   error
	saveErr      error
	flushCount   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:       make(map[uuid.UUID]*types.Profile),
		experiences:    make(map[uuid.UUID][]types.Experience),
		education:      make(map[uuid.UUID][]types.Education),
		skills:         make(map[uuid.UUID][]types.Skill),
		projects:       make(map[uuid.UUID][]types.Project),
		certifications: make(map[uuid.UUID][]types.Certification),
		resumes:        make(map[uuid.UUID]*types.Resume),
		resumeRaw:      make(map[uuid.UUID][]byte),
		users:          make(map[uuid.UUID]*db.User),
	}
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, userID uuid.UUID, info types.PersonalInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profileLocked(userID)
	if info.FullName != nil {
		p.FullName = *info.FullName
	}
	if info.Email != nil {
		p.Email = *info.Email
	}
	if info.Phone != nil {
		p.Phone = *info.Phone
	}
	if info.Location != nil {
		p.Location = *info.Location
	}
	if info.ProfessionalHeadline != nil {
		p.ProfessionalHeadline = *info.ProfessionalHeadline
	}
	if info.ProfessionalSummary != nil {
		p.ProfessionalSummary = *info.ProfessionalSummary
	}
	return nil
}

func (f *fakeStore) profileLocked(userID uuid.UUID) *types.Profile {
	p, ok := f.profiles[userID]
	if !ok {
		p = &types.Profile{ID: uuid.New(), UserID: userID, OnboardingCurrentStep: 1}
		f.profiles[userID] = p
	}
	return p
}

func (f *fakeStore) UpdateOnboardingStep(_ context.Context, userID uuid.UUID, step int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileLocked(userID).OnboardingCurrentStep = step
	return nil
}

func (f *fakeStore) CompleteOnboarding(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profileLocked(userID)
	p.OnboardingCompleted = true
	now := time.Now()
	p.OnboardingCompletedAt = &now
	return nil
}

func (f *fakeStore) ReplaceExperiences(_ context.Context, userID uuid.UUID, experiences []types.Experience) error {
	if f.replaceDelay > 0 {
		time.Sleep(f.replaceDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.flushCount++
	f.experiences[userID] = experiences
	return nil
}

func (f *fakeStore) ListExperiences(_ context.Context, userID uuid.UUID) ([]types.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.experiences[userID], nil
}

func (f *fakeStore) ReplaceEducation(_ context.Context, userID uuid.UUID, education []types.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.education[userID] = education
	return nil
}

func (f *fakeStore) ListEducation(_ context.Context, userID uuid.UUID) ([]types.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.education[userID], nil
}

func (f *fakeStore) ReplaceSkills(_ context.Context, userID uuid.UUID, skills []types.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skills[userID] = skills
	return nil
}

func (f *fakeStore) ListSkills(_ context.Context, userID uuid.UUID) ([]types.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skills[userID], nil
}

func (f *fakeStore) ReplaceProjects(_ context.Context, userID uuid.UUID, projects []types.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[userID] = projects
	return nil
}

func (f *fakeStore) ListProjects(_ context.Context, userID uuid.UUID) ([]types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[userID], nil
}

func (f *fakeStore) ReplaceCertifications(_ context.Context, userID uuid.UUID, certifications []types.Certification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certifications[userID] = certifications
	return nil
}

func (f *fakeStore) ListCertifications(_ context.Context, userID uuid.UUID) ([]types.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.certifications[userID], nil
}

func (f *fakeStore) CreateResume(_ context.Context, userID uuid.UUID, title string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	f.resumes[id] = &types.Resume{ID: id, UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeStore) GetResume(_ context.Context, resumeID uuid.UUID) (*types.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resumes[resumeID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetResumeContent(_ context.Context, resumeID uuid.UUID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumeRaw[resumeID], nil
}

func (f *fakeStore) UpdateResumeContent(_ context.Context, resumeID uuid.UUID, data *types.ResumeData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f.resumeRaw[resumeID] = raw
	if r, ok := f.resumes[resumeID]; ok {
		r.Content = data
		// The real store writes the row title from the document on every save.
		r.Title = data.Title
		r.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeStore) ListResumes(_ context.Context, userID uuid.UUID) ([]types.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Resume
	for _, r := range f.resumes {
		if r.UserID == userID {
			cp := *r
			cp.Content = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeStore) RenameResume(_ context.Context, resumeID uuid.UUID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resumes[resumeID]
	if !ok {
		return fmt.Errorf("resume %s not found", resumeID)
	}
	r.Title = title
	return nil
}

func (f *fakeStore) DeleteResume(_ context.Context, resumeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.resumes, resumeID)
	delete(f.resumeRaw, resumeID)
	return nil
}

func (f *fakeStore) CreateUser(_ context.Context, email, fullName, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &db.User{ID: id, Email: email, FullName: fullName, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) experienceCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.experiences[userID])
}

// newTestServer wires a Server on the fake store with a short autosave
// quiet window. No database or network is touched.
func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	s := &Server{store: store}
	s.sessions = NewSessions(store, 30*time.Millisecond, time.Hour)
	t.Cleanup(s.sessions.Stop)

	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s.userService = NewUserService(store, &config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	return s, store
}

// doRequest runs one request through the full route table with a real JWT
// for userID. A zero userID sends no Authorization header.
func doRequest(t *testing.T, s *Server, userID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		token, err := s.jwtService.GenerateToken(userID)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

// doRequestWithToken is doRequest with a caller-supplied bearer token.
func doRequestWithToken(t *testing.T, s *Server, token, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v (body %q)", err, rec.Body.String())
	}
	return out
}

var _ Datastore = (*fakeStore)(nil)
var _ UserStore = (*fakeStore)(nil)
