// Package onboarding implements the onboarding wizard: an in-memory working
// copy of the user's profile data, a debounced background flush to the
// database, and a persisted step cursor so a reload resumes where the user
// left off.
package onboarding

import (
	"sync"

	"github.com/jonathan/ezresume/internal/types"
)

// Data is the aggregate root for one onboarding session: the partial
// personal-info record plus the repeatable entity collections.
type Data struct {
	PersonalInfo   types.PersonalInfo    `json:"personal_info"`
	Experiences    []types.Experience    `json:"experiences"`
	Education      []types.Education     `json:"education"`
	Skills         []types.Skill         `json:"skills"`
	Projects       []types.Project       `json:"projects"`
	Certifications []types.Certification `json:"certifications"`
}

// Store holds the canonical in-memory aggregate and exposes its mutation
// operations. It is the only writer of its own state; it never talks to the
// network. Every mutation notifies the registered observer (the session's
// debounced flush scheduler).
type Store struct {
	mu       sync.Mutex
	data     Data
	onChange func()
}

// NewStore creates a store seeded with initial data. onChange may be nil.
func NewStore(initial Data, onChange func()) *Store {
	initial.normalize()
	return &Store{data: initial, onChange: onChange}
}

// normalize replaces nil collections with empty ones so the aggregate
// serializes them as [] rather than null.
func (d *Data) normalize() {
	if d.Experiences == nil {
		d.Experiences = []types.Experience{}
	}
	if d.Education == nil {
		d.Education = []types.Education{}
	}
	if d.Skills == nil {
		d.Skills = []types.Skill{}
	}
	if d.Projects == nil {
		d.Projects = []types.Project{}
	}
	if d.Certifications == nil {
		d.Certifications = []types.Certification{}
	}
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Snapshot returns a copy of the aggregate. Flushes read the store through
// Snapshot at flush time, never from a copy captured at schedule time.
func (s *Store) Snapshot() Data {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data
	snap.Experiences = append(make([]types.Experience, 0, len(s.data.Experiences)), s.data.Experiences...)
	snap.Education = append(make([]types.Education, 0, len(s.data.Education)), s.data.Education...)
	snap.Skills = append(make([]types.Skill, 0, len(s.data.Skills)), s.data.Skills...)
	snap.Projects = append(make([]types.Project, 0, len(s.data.Projects)), s.data.Projects...)
	snap.Certifications = append(make([]types.Certification, 0, len(s.data.Certifications)), s.data.Certifications...)
	return snap
}

// UpdatePersonalInfo shallow-merges the partial record; later keys win.
func (s *Store) UpdatePersonalInfo(patch types.PersonalInfo) {
	s.mu.Lock()
	s.data.PersonalInfo.Merge(patch)
	s.mu.Unlock()
	s.changed()
}

// AddExperience appends a new experience with a fresh temporary id.
func (s *Store) AddExperience(input types.ExperienceInput) types.EntityID {
	id := types.NewTempID()
	s.mu.Lock()
	s.data.Experiences = append(s.data.Experiences, types.Experience{
		ID:               id,
		CompanyName:      input.CompanyName,
		JobTitle:         input.JobTitle,
		Location:         input.Location,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		IsCurrent:        input.IsCurrent,
		Description:      input.Description,
		KeyAchievements:  input.KeyAchievements,
		TechnologiesUsed: input.TechnologiesUsed,
	})
	s.mu.Unlock()
	s.changed()
	return id
}

// UpdateExperience merges partial fields into the matching entity; silent
// no-op when no entity matches.
func (s *Store) UpdateExperience(id types.EntityID, patch types.ExperiencePatch) {
	s.mu.Lock()
	for i := range s.data.Experiences {
		if s.data.Experiences[i].ID == id {
			patch.Apply(&s.data.Experiences[i])
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveExperience filters out the matching entity; silent no-op if absent.
func (s *Store) RemoveExperience(id types.EntityID) {
	s.mu.Lock()
	kept := s.data.Experiences[:0]
	for _, exp := range s.data.Experiences {
		if exp.ID != id {
			kept = append(kept, exp)
		}
	}
	s.data.Experiences = kept
	s.mu.Unlock()
	s.changed()
}

// AddEducation appends a new education entry with a fresh temporary id.
func (s *Store) AddEducation(input types.EducationInput) types.EntityID {
	id := types.NewTempID()
	s.mu.Lock()
	s.data.Education = append(s.data.Education, types.Education{
		ID:                 id,
		InstitutionName:    input.InstitutionName,
		DegreeType:         input.DegreeType,
		FieldOfStudy:       input.FieldOfStudy,
		Location:           input.Location,
		StartDate:          input.StartDate,
		GraduationDate:     input.GraduationDate,
		GPA:                input.GPA,
		RelevantCoursework: input.RelevantCoursework,
		HonorsAwards:       input.HonorsAwards,
	})
	s.mu.Unlock()
	s.changed()
	return id
}

// UpdateEducation merges partial fields into the matching entity.
func (s *Store) UpdateEducation(id types.EntityID, patch types.EducationPatch) {
	s.mu.Lock()
	for i := range s.data.Education {
		if s.data.Education[i].ID == id {
			patch.Apply(&s.data.Education[i])
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveEducation filters out the matching entity.
func (s *Store) RemoveEducation(id types.EntityID) {
	s.mu.Lock()
	kept := s.data.Education[:0]
	for _, edu := range s.data.Education {
		if edu.ID != id {
			kept = append(kept, edu)
		}
	}
	s.data.Education = kept
	s.mu.Unlock()
	s.changed()
}

// AddSkill appends a new skill with a fresh temporary id.
func (s *Store) AddSkill(input types.SkillInput) types.EntityID {
	id := types.NewTempID()
	s.mu.Lock()
	s.data.Skills = append(s.data.Skills, types.Skill{
		ID:                id,
		SkillName:         input.SkillName,
		SkillCategory:     input.SkillCategory,
		ProficiencyLevel:  input.ProficiencyLevel,
		YearsOfExperience: input.YearsOfExperience,
	})
	s.mu.Unlock()
	s.changed()
	return id
}

// UpdateSkill merges partial fields into the matching entity.
func (s *Store) UpdateSkill(id types.EntityID, patch types.SkillPatch) {
	s.mu.Lock()
	for i := range s.data.Skills {
		if s.data.Skills[i].ID == id {
			patch.Apply(&s.data.Skills[i])
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveSkill filters out the matching entity.
func (s *Store) RemoveSkill(id types.EntityID) {
	s.mu.Lock()
	kept := s.data.Skills[:0]
	for _, skill := range s.data.Skills {
		if skill.ID != id {
			kept = append(kept, skill)
		}
	}
	s.data.Skills = kept
	s.mu.Unlock()
	s.changed()
}

// AddProject appends a new project with a fresh temporary id.
func (s *Store) AddProject(input types.ProjectInput) types.EntityID {
	id := types.NewTempID()
	s.mu.Lock()
	s.data.Projects = append(s.data.Projects, types.Project{
		ID:               id,
		ProjectName:      input.ProjectName,
		Description:      input.Description,
		Role:             input.Role,
		TechnologiesUsed: input.TechnologiesUsed,
		ProjectURL:       input.ProjectURL,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		KeyAchievements:  input.KeyAchievements,
	})
	s.mu.Unlock()
	s.changed()
	return id
}

// UpdateProject merges partial fields into the matching entity.
func (s *Store) UpdateProject(id types.EntityID, patch types.ProjectPatch) {
	s.mu.Lock()
	for i := range s.data.Projects {
		if s.data.Projects[i].ID == id {
			patch.Apply(&s.data.Projects[i])
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveProject filters out the matching entity.
func (s *Store) RemoveProject(id types.EntityID) {
	s.mu.Lock()
	kept := s.data.Projects[:0]
	for _, project := range s.data.Projects {
		if project.ID != id {
			kept = append(kept, project)
		}
	}
	s.data.Projects = kept
	s.mu.Unlock()
	s.changed()
}

// AddCertification appends a new certification with a fresh temporary id.
func (s *Store) AddCertification(input types.CertificationInput) types.EntityID {
	id := types.NewTempID()
	s.mu.Lock()
	s.data.Certifications = append(s.data.Certifications, types.Certification{
		ID:                  id,
		CertificationName:   input.CertificationName,
		IssuingOrganization: input.IssuingOrganization,
		IssueDate:           input.IssueDate,
		ExpiryDate:          input.ExpiryDate,
		CredentialID:        input.CredentialID,
		CredentialURL:       input.CredentialURL,
	})
	s.mu.Unlock()
	s.changed()
	return id
}

// UpdateCertification merges partial fields into the matching entity.
func (s *Store) UpdateCertification(id types.EntityID, patch types.CertificationPatch) {
	s.mu.Lock()
	for i := range s.data.Certifications {
		if s.data.Certifications[i].ID == id {
			patch.Apply(&s.data.Certifications[i])
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RemoveCertification filters out the matching entity.
func (s *Store) RemoveCertification(id types.EntityID) {
	s.mu.Lock()
	kept := s.data.Certifications[:0]
	for _, cert := range s.data.Certifications {
		if cert.ID != id {
			kept = append(kept, cert)
		}
	}
	s.data.Certifications = kept
	s.mu.Unlock()
	s.changed()
}
