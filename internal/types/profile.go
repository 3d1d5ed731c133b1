package types

import (
	"time"

	"github.com/google/uuid"
)

// JobSearchStatus describes how actively a user is looking for work.
type JobSearchStatus string

// Job search statuses.
const (
	SearchActive     JobSearchStatus = "active"
	SearchPassive    JobSearchStatus = "passive"
	SearchNotLooking JobSearchStatus = "not_looking"
)

// Profile is the persisted user profile row, including the onboarding cursor
// fields that make wizard progress durable across reloads.
type Profile struct {
	ID                    uuid.UUID       `json:"id"`
	UserID                uuid.UUID       `json:"user_id"`
	OnboardingCompleted   bool            `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time      `json:"onboarding_completed_at,omitempty"`
	OnboardingCurrentStep int             `json:"onboarding_current_step"`
	FullName              string          `json:"full_name"`
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone,omitempty"`
	Location              string          `json:"location,omitempty"`
	LinkedInURL           string          `json:"linkedin_url,omitempty"`
	GitHubURL             string          `json:"github_url,omitempty"`
	WebsiteURL            string          `json:"website_url,omitempty"`
	ProfessionalSummary   string          `json:"professional_summary,omitempty"`
	ProfessionalHeadline  string          `json:"professional_headline,omitempty"`
	YearsOfExperience     *int            `json:"years_of_experience,omitempty"`
	TargetRoles           []string        `json:"target_roles,omitempty"`
	TargetIndustries      []string        `json:"target_industries,omitempty"`
	JobSearchStatus       JobSearchStatus `json:"job_search_status,omitempty"`
	PreferredLocations    []string        `json:"preferred_locations,omitempty"`
	OpenToRemote          bool            `json:"open_to_remote"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PersonalInfo is the in-memory partial profile built up across onboarding
// steps. Fields are pointers so a merge can distinguish "not provided" from
// an explicit zero value.
type PersonalInfo struct {
	FullName             *string          `json:"full_name,omitempty"`
	Email                *string          `json:"email,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	Location             *string          `json:"location,omitempty"`
	LinkedInURL          *string          `json:"linkedin_url,omitempty"`
	GitHubURL            *string          `json:"github_url,omitempty"`
	WebsiteURL           *string          `json:"website_url,omitempty"`
	ProfessionalSummary  *string          `json:"professional_summary,omitempty"`
	ProfessionalHeadline *string          `json:"professional_headline,omitempty"`
	YearsOfExperience    *int             `json:"years_of_experience,omitempty"`
	TargetRoles          []string         `json:"target_roles,omitempty"`
	TargetIndustries     []string         `json:"target_industries,omitempty"`
	JobSearchStatus      *JobSearchStatus `json:"job_search_status,omitempty"`
	PreferredLocations   []string         `json:"preferred_locations,omitempty"`
	OpenToRemote         *bool            `json:"open_to_remote,omitempty"`
}

// Merge applies a shallow merge of patch into p. Later keys win: any field
// set on patch replaces the corresponding field on p.
func (p *PersonalInfo) Merge(patch PersonalInfo) {
	if patch.FullName != nil {
		p.FullName = patch.FullName
	}
	if patch.Email != nil {
		p.Email = patch.Email
	}
	if patch.Phone != nil {
		p.Phone = patch.Phone
	}
	if patch.Location != nil {
		p.Location = patch.Location
	}
	if patch.LinkedInURL != nil {
		p.LinkedInURL = patch.LinkedInURL
	}
	if patch.GitHubURL != nil {
		p.GitHubURL = patch.GitHubURL
	}
	if patch.WebsiteURL != nil {
		p.WebsiteURL = patch.WebsiteURL
	}
	if patch.ProfessionalSummary != nil {
		p.ProfessionalSummary = patch.ProfessionalSummary
	}
	if patch.ProfessionalHeadline != nil {
		p.ProfessionalHeadline = patch.ProfessionalHeadline
	}
	if patch.YearsOfExperience != nil {
		p.YearsOfExperience = patch.YearsOfExperience
	}
	if patch.TargetRoles != nil {
		p.TargetRoles = patch.TargetRoles
	}
	if patch.TargetIndustries != nil {
		p.TargetIndustries = patch.TargetIndustries
	}
	if patch.JobSearchStatus != nil {
		p.JobSearchStatus = patch.JobSearchStatus
	}
	if patch.PreferredLocations != nil {
		p.PreferredLocations = patch.PreferredLocations
	}
	if patch.OpenToRemote != nil {
		p.OpenToRemote = patch.OpenToRemote
	}
}

// IsEmpty reports whether no field has been set.
func (p *PersonalInfo) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil &&
		p.Location == nil && p.LinkedInURL == nil && p.GitHubURL == nil &&
		p.WebsiteURL == nil && p.ProfessionalSummary == nil &&
		p.ProfessionalHeadline == nil && p.YearsOfExperience == nil &&
		p.TargetRoles == nil && p.TargetIndustries == nil &&
		p.JobSearchStatus == nil && p.PreferredLocations == nil &&
		p.OpenToRemote == nil
}

// FromProfile builds a fully-populated PersonalInfo from a stored profile
// row, used when resuming onboarding after a reload.
func FromProfile(profile *Profile) PersonalInfo {
	if profile == nil {
		return PersonalInfo{}
	}
	info := PersonalInfo{
		TargetRoles:        profile.TargetRoles,
		TargetIndustries:   profile.TargetIndustries,
		PreferredLocations: profile.PreferredLocations,
	}
	info.FullName = &profile.FullName
	info.Email = &profile.Email
	if profile.Phone != "" {
		info.Phone = &profile.Phone
	}
	if profile.Location != "" {
		info.Location = &profile.Location
	}
	if profile.LinkedInURL != "" {
		info.LinkedInURL = &profile.LinkedInURL
	}
	if profile.GitHubURL != "" {
		info.GitHubURL = &profile.GitHubURL
	}
	if profile.WebsiteURL != "" {
		info.WebsiteURL = &profile.WebsiteURL
	}
	if profile.ProfessionalSummary != "" {
		info.ProfessionalSummary = &profile.ProfessionalSummary
	}
	if profile.ProfessionalHeadline != "" {
		info.ProfessionalHeadline = &profile.ProfessionalHeadline
	}
	if profile.YearsOfExperience != nil {
		info.YearsOfExperience = profile.YearsOfExperience
	}
	if profile.JobSearchStatus != "" {
		status := profile.JobSearchStatus
		info.JobSearchStatus = &status
	}
	remote := profile.OpenToRemote
	info.OpenToRemote = &remote
	return info
}
