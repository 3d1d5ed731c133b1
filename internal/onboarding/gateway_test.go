package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/types"
)

// fakeGateway is an in-memory Gateway that mimics the database's behavior:
// replace operations store the rows and assign real ids to entities that
// arrive with the id omitted. It records call counts and tracks overlapping
// replace calls so tests can assert the single-flight guard.
type fakeGateway struct {
	mu sync.Mutex

	profile        *types.Profile
	experiences    []types.Experience
	education      []types.Education
	skills         []types.Skill
	projects       []types.Project
	certifications []types.Certification

	flushCount   int
	stepWrites   []int
	completed    bool
	replaceDelay time.Duration
	failReplace  error

	active    int
	maxActive int

	// insertedWithoutID counts rows whose id was omitted on insert.
	insertedWithoutID int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

func (g *fakeGateway) enter() {
	g.mu.Lock()
	g.active++
	if g.active > g.maxActive {
		g.maxActive = g.active
	}
	delay := g.replaceDelay
	g.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
}

func (g *fakeGateway) exit() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()
}

func (g *fakeGateway) GetProfile(_ context.Context, _ uuid.UUID) (*types.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile, nil
}

func (g *fakeGateway) UpsertProfile(_ context.Context, userID uuid.UUID, info types.PersonalInfo) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		g.profile = &types.Profile{ID: uuid.New(), UserID: userID, OnboardingCurrentStep: 1}
	}
	merged := types.FromProfile(g.profile)
	merged.Merge(info)
	if merged.FullName != nil {
		g.profile.FullName = *merged.FullName
	}
	if merged.Email != nil {
		g.profile.Email = *merged.Email
	}
	if merged.ProfessionalHeadline != nil {
		g.profile.ProfessionalHeadline = *merged.ProfessionalHeadline
	}
	return nil
}

func (g *fakeGateway) UpdateOnboardingStep(_ context.Context, userID uuid.UUID, step int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		g.profile = &types.Profile{ID: uuid.New(), UserID: userID}
	}
	g.profile.OnboardingCurrentStep = step
	g.stepWrites = append(g.stepWrites, step)
	return nil
}

func (g *fakeGateway) CompleteOnboarding(_ context.Context, _ uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return context.Canceled
	}
	g.profile.OnboardingCompleted = true
	now := time.Now()
	g.profile.OnboardingCompletedAt = &now
	g.completed = true
	return nil
}

func (g *fakeGateway) ReplaceExperiences(_ context.Context, _ uuid.UUID, experiences []types.Experience) error {
	g.enter()
	defer g.exit()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReplace != nil {
		return g.failReplace
	}
	g.flushCount++
	stored := make([]types.Experience, len(experiences))
	for i, exp := range experiences {
		stored[i] = exp
		stored[i].OrderIndex = i
		if exp.ID.IsTemporary() {
			g.insertedWithoutID++
			stored[i].ID = types.PersistedID(uuid.New())
		}
	}
	g.experiences = stored
	return nil
}

func (g *fakeGateway) ListExperiences(_ context.Context, _ uuid.UUID) ([]types.Experience, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.Experience(nil), g.experiences...), nil
}

func (g *fakeGateway) ReplaceEducation(_ context.Context, _ uuid.UUID, education []types.Education) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := make([]types.Education, len(education))
	for i, edu := range education {
		stored[i] = edu
		stored[i].OrderIndex = i
		if edu.ID.IsTemporary() {
			g.insertedWithoutID++
			stored[i].ID = types.PersistedID(uuid.New())
		}
	}
	g.education = stored
	return nil
}

func (g *fakeGateway) ListEducation(_ context.Context, _ uuid.UUID) ([]types.Education, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.Education(nil), g.education...), nil
}

func (g *fakeGateway) ReplaceSkills(_ context.Context, _ uuid.UUID, skills []types.Skill) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := make([]types.Skill, len(skills))
	for i, skill := range skills {
		stored[i] = skill
		if skill.ID.IsTemporary() {
			g.insertedWithoutID++
			stored[i].ID = types.PersistedID(uuid.New())
		}
	}
	g.skills = stored
	return nil
}

func (g *fakeGateway) ListSkills(_ context.Context, _ uuid.UUID) ([]types.Skill, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.Skill(nil), g.skills...), nil
}

func (g *fakeGateway) ReplaceProjects(_ context.Context, _ uuid.UUID, projects []types.Project) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := make([]types.Project, len(projects))
	for i, project := range projects {
		stored[i] = project
		stored[i].OrderIndex = i
		if project.ID.IsTemporary() {
			g.insertedWithoutID++
			stored[i].ID = types.PersistedID(uuid.New())
		}
	}
	g.projects = stored
	return nil
}

func (g *fakeGateway) ListProjects(_ context.Context, _ uuid.UUID) ([]types.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.Project(nil), g.projects...), nil
}

func (g *fakeGateway) ReplaceCertifications(_ context.Context, _ uuid.UUID, certifications []types.Certification) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := make([]types.Certification, len(certifications))
	for i, cert := range certifications {
		stored[i] = cert
		if cert.ID.IsTemporary() {
			g.insertedWithoutID++
			stored[i].ID = types.PersistedID(uuid.New())
		}
	}
	g.certifications = stored
	return nil
}

func (g *fakeGateway) ListCertifications(_ context.Context, _ uuid.UUID) ([]types.Certification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.Certification(nil), g.certifications...), nil
}
