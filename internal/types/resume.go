package types

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo is the contact block of a resume document.
type ContactInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ResumeExperience is one experience entry in a resume document. Unlike the
// onboarding aggregate there is no order index; array position is the order.
type ResumeExperience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date,omitempty"`
	Current     bool     `json:"current"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ResumeEducation is one education entry in a resume document.
type ResumeEducation struct {
	ID          string   `json:"id"`
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Field       string   `json:"field,omitempty"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ResumeSkill is one skill entry in a resume document.
type ResumeSkill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
}

// ResumeProject is one project entry in a resume document.
type ResumeProject struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// ResumeCertification is one certification entry in a resume document.
type ResumeCertification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	Link         string `json:"link,omitempty"`
}

// ResumeData is a complete resume document. It is persisted as a single JSON
// blob owned by one builder session, never normalized into collections.
type ResumeData struct {
	Title          string                `json:"title"`
	Template       string                `json:"template"`
	Contact        ContactInfo           `json:"contact"`
	Summary        string                `json:"summary"`
	Experience     []ResumeExperience    `json:"experience"`
	Education      []ResumeEducation     `json:"education"`
	Skills         []ResumeSkill         `json:"skills"`
	Projects       []ResumeProject       `json:"projects,omitempty"`
	Certifications []ResumeCertification `json:"certifications,omitempty"`
}

// Resume is a stored resume row; Content holds the document blob.
type Resume struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Title     string      `json:"title"`
	Content   *ResumeData `json:"content,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DefaultResumeData returns the empty document a freshly created resume
// starts from.
func DefaultResumeData(title string) *ResumeData {
	return &ResumeData{
		Title:          title,
		Template:       "modern",
		Experience:     []ResumeExperience{},
		Education:      []ResumeEducation{},
		Skills:         []ResumeSkill{},
		Projects:       []ResumeProject{},
		Certifications: []ResumeCertification{},
	}
}
