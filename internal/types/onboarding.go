// Package types provides type definitions for structured resume and
// onboarding data used throughout the ezresume system.
package types

// SkillCategory classifies a skill entry.
type SkillCategory string

// Skill categories.
const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguage  SkillCategory = "language"
	SkillTool      SkillCategory = "tool"
)

// ProficiencyLevel describes self-assessed skill proficiency.
type ProficiencyLevel string

// Proficiency levels.
const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyExpert       ProficiencyLevel = "expert"
)

// Experience is one work-history entry in the onboarding aggregate.
// OrderIndex is a derived value recomputed from slice position at flush time;
// slice position is the local source of truth for ordering.
type Experience struct {
	ID               EntityID `json:"id"`
	CompanyName      string   `json:"company_name"`
	JobTitle         string   `json:"job_title"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date,omitempty"`
	IsCurrent        bool     `json:"is_current"`
	Description      string   `json:"description,omitempty"`
	KeyAchievements  []string `json:"key_achievements,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
	OrderIndex       int      `json:"order_index"`
}

// ExperienceInput is the caller-supplied portion of an Experience; identity
// fields are assigned by the store.
type ExperienceInput struct {
	CompanyName      string   `json:"company_name"`
	JobTitle         string   `json:"job_title"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date,omitempty"`
	IsCurrent        bool     `json:"is_current"`
	Description      string   `json:"description,omitempty"`
	KeyAchievements  []string `json:"key_achievements,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
}

// ExperiencePatch carries partial updates to an Experience. Nil fields are
// left untouched.
type ExperiencePatch struct {
	CompanyName      *string   `json:"company_name,omitempty"`
	JobTitle         *string   `json:"job_title,omitempty"`
	Location         *string   `json:"location,omitempty"`
	StartDate        *string   `json:"start_date,omitempty"`
	EndDate          *string   `json:"end_date,omitempty"`
	IsCurrent        *bool     `json:"is_current,omitempty"`
	Description      *string   `json:"description,omitempty"`
	KeyAchievements  *[]string `json:"key_achievements,omitempty"`
	TechnologiesUsed *[]string `json:"technologies_used,omitempty"`
}

// Apply merges the patch into the entity.
func (p ExperiencePatch) Apply(e *Experience) {
	if p.CompanyName != nil {
		e.CompanyName = *p.CompanyName
	}
	if p.JobTitle != nil {
		e.JobTitle = *p.JobTitle
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.IsCurrent != nil {
		e.IsCurrent = *p.IsCurrent
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.KeyAchievements != nil {
		e.KeyAchievements = *p.KeyAchievements
	}
	if p.TechnologiesUsed != nil {
		e.TechnologiesUsed = *p.TechnologiesUsed
	}
}

// Education is one education entry in the onboarding aggregate.
type Education struct {
	ID                 EntityID `json:"id"`
	InstitutionName    string   `json:"institution_name"`
	DegreeType         string   `json:"degree_type"`
	FieldOfStudy       string   `json:"field_of_study"`
	Location           string   `json:"location,omitempty"`
	StartDate          string   `json:"start_date,omitempty"`
	GraduationDate     string   `json:"graduation_date,omitempty"`
	GPA                *float64 `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework,omitempty"`
	HonorsAwards       []string `json:"honors_awards,omitempty"`
	OrderIndex         int      `json:"order_index"`
}

// EducationInput is the caller-supplied portion of an Education entry.
type EducationInput struct {
	InstitutionName    string   `json:"institution_name"`
	DegreeType         string   `json:"degree_type"`
	FieldOfStudy       string   `json:"field_of_study"`
	Location           string   `json:"location,omitempty"`
	StartDate          string   `json:"start_date,omitempty"`
	GraduationDate     string   `json:"graduation_date,omitempty"`
	GPA                *float64 `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework,omitempty"`
	HonorsAwards       []string `json:"honors_awards,omitempty"`
}

// EducationPatch carries partial updates to an Education entry.
type EducationPatch struct {
	InstitutionName    *string   `json:"institution_name,omitempty"`
	DegreeType         *string   `json:"degree_type,omitempty"`
	FieldOfStudy       *string   `json:"field_of_study,omitempty"`
	Location           *string   `json:"location,omitempty"`
	StartDate          *string   `json:"start_date,omitempty"`
	GraduationDate     *string   `json:"graduation_date,omitempty"`
	GPA                *float64  `json:"gpa,omitempty"`
	RelevantCoursework *[]string `json:"relevant_coursework,omitempty"`
	HonorsAwards       *[]string `json:"honors_awards,omitempty"`
}

// Apply merges the patch into the entity.
func (p EducationPatch) Apply(e *Education) {
	if p.InstitutionName != nil {
		e.InstitutionName = *p.InstitutionName
	}
	if p.DegreeType != nil {
		e.DegreeType = *p.DegreeType
	}
	if p.FieldOfStudy != nil {
		e.FieldOfStudy = *p.FieldOfStudy
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.GraduationDate != nil {
		e.GraduationDate = *p.GraduationDate
	}
	if p.GPA != nil {
		e.GPA = p.GPA
	}
	if p.RelevantCoursework != nil {
		e.RelevantCoursework = *p.RelevantCoursework
	}
	if p.HonorsAwards != nil {
		e.HonorsAwards = *p.HonorsAwards
	}
}

// Skill is one skill entry. Skills are unordered; there is no order index.
type Skill struct {
	ID                EntityID         `json:"id"`
	SkillName         string           `json:"skill_name"`
	SkillCategory     SkillCategory    `json:"skill_category,omitempty"`
	ProficiencyLevel  ProficiencyLevel `json:"proficiency_level,omitempty"`
	YearsOfExperience *int             `json:"years_of_experience,omitempty"`
}

// SkillInput is the caller-supplied portion of a Skill.
type SkillInput struct {
	SkillName         string           `json:"skill_name"`
	SkillCategory     SkillCategory    `json:"skill_category,omitempty"`
	ProficiencyLevel  ProficiencyLevel `json:"proficiency_level,omitempty"`
	YearsOfExperience *int             `json:"years_of_experience,omitempty"`
}

// SkillPatch carries partial updates to a Skill.
type SkillPatch struct {
	SkillName         *string           `json:"skill_name,omitempty"`
	SkillCategory     *SkillCategory    `json:"skill_category,omitempty"`
	ProficiencyLevel  *ProficiencyLevel `json:"proficiency_level,omitempty"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty"`
}

// Apply merges the patch into the entity.
func (p SkillPatch) Apply(s *Skill) {
	if p.SkillName != nil {
		s.SkillName = *p.SkillName
	}
	if p.SkillCategory != nil {
		s.SkillCategory = *p.SkillCategory
	}
	if p.ProficiencyLevel != nil {
		s.ProficiencyLevel = *p.ProficiencyLevel
	}
	if p.YearsOfExperience != nil {
		s.YearsOfExperience = p.YearsOfExperience
	}
}

// Project is one project entry in the onboarding aggregate.
type Project struct {
	ID               EntityID `json:"id"`
	ProjectName      string   `json:"project_name"`
	Description      string   `json:"description,omitempty"`
	Role             string   `json:"role,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
	ProjectURL       string   `json:"project_url,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	KeyAchievements  []string `json:"key_achievements,omitempty"`
	OrderIndex       int      `json:"order_index"`
}

// ProjectInput is the caller-supplied portion of a Project.
type ProjectInput struct {
	ProjectName      string   `json:"project_name"`
	Description      string   `json:"description,omitempty"`
	Role             string   `json:"role,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
	ProjectURL       string   `json:"project_url,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	KeyAchievements  []string `json:"key_achievements,omitempty"`
}

// ProjectPatch carries partial updates to a Project.
type ProjectPatch struct {
	ProjectName      *string   `json:"project_name,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Role             *string   `json:"role,omitempty"`
	TechnologiesUsed *[]string `json:"technologies_used,omitempty"`
	ProjectURL       *string   `json:"project_url,omitempty"`
	StartDate        *string   `json:"start_date,omitempty"`
	EndDate          *string   `json:"end_date,omitempty"`
	KeyAchievements  *[]string `json:"key_achievements,omitempty"`
}

// Apply merges the patch into the entity.
func (p ProjectPatch) Apply(pr *Project) {
	if p.ProjectName != nil {
		pr.ProjectName = *p.ProjectName
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Role != nil {
		pr.Role = *p.Role
	}
	if p.TechnologiesUsed != nil {
		pr.TechnologiesUsed = *p.TechnologiesUsed
	}
	if p.ProjectURL != nil {
		pr.ProjectURL = *p.ProjectURL
	}
	if p.StartDate != nil {
		pr.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		pr.EndDate = *p.EndDate
	}
	if p.KeyAchievements != nil {
		pr.KeyAchievements = *p.KeyAchievements
	}
}

// Certification is one certification entry. Certifications are unordered.
type Certification struct {
	ID                  EntityID `json:"id"`
	CertificationName   string   `json:"certification_name"`
	IssuingOrganization string   `json:"issuing_organization"`
	IssueDate           string   `json:"issue_date"`
	ExpiryDate          string   `json:"expiry_date,omitempty"`
	CredentialID        string   `json:"credential_id,omitempty"`
	CredentialURL       string   `json:"credential_url,omitempty"`
}

// CertificationInput is the caller-supplied portion of a Certification.
type CertificationInput struct {
	CertificationName   string `json:"certification_name"`
	IssuingOrganization string `json:"issuing_organization"`
	IssueDate           string `json:"issue_date"`
	ExpiryDate          string `json:"expiry_date,omitempty"`
	CredentialID        string `json:"credential_id,omitempty"`
	CredentialURL       string `json:"credential_url,omitempty"`
}

// CertificationPatch carries partial updates to a Certification.
type CertificationPatch struct {
	CertificationName   *string `json:"certification_name,omitempty"`
	IssuingOrganization *string `json:"issuing_organization,omitempty"`
	IssueDate           *string `json:"issue_date,omitempty"`
	ExpiryDate          *string `json:"expiry_date,omitempty"`
	CredentialID        *string `json:"credential_id,omitempty"`
	CredentialURL       *string `json:"credential_url,omitempty"`
}

// Apply merges the patch into the entity.
func (p CertificationPatch) Apply(c *Certification) {
	if p.CertificationName != nil {
		c.CertificationName = *p.CertificationName
	}
	if p.IssuingOrganization != nil {
		c.IssuingOrganization = *p.IssuingOrganization
	}
	if p.IssueDate != nil {
		c.IssueDate = *p.IssueDate
	}
	if p.ExpiryDate != nil {
		c.ExpiryDate = *p.ExpiryDate
	}
	if p.CredentialID != nil {
		c.CredentialID = *p.CredentialID
	}
	if p.CredentialURL != nil {
		c.CredentialURL = *p.CredentialURL
	}
}
