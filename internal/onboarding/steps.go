package onboarding

import (
	"github.com/go-playground/validator/v10"
)

// Wizard steps, in order. The cursor is 1-based.
const (
	StepWelcome = iota + 1
	StepPersonalInfo
	StepProfessionalSummary
	StepExperience
	StepEducation
	StepSkills
	StepAdditionalInfo
	StepComplete

	// StepCount is the number of wizard steps.
	StepCount = StepComplete
)

// StepNames maps step indices to display names.
var StepNames = map[int]string{
	StepWelcome:             "Welcome",
	StepPersonalInfo:        "Personal Info",
	StepProfessionalSummary: "Professional Summary",
	StepExperience:          "Experience",
	StepEducation:           "Education",
	StepSkills:              "Skills",
	StepAdditionalInfo:      "Additional Info",
	StepComplete:            "Complete",
}

// StepValidation is the result of validating a step's form state: valid or
// a map of field name to failure. Validation is a pure function the caller
// runs before Next; the session itself never validates, and Skip bypasses
// validation entirely.
type StepValidation struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// PersonalInfoForm is the required-field form for the personal-info step.
type PersonalInfoForm struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Location string `json:"location" validate:"required"`
}

// SummaryForm is the form for the professional-summary step.
type SummaryForm struct {
	ProfessionalHeadline string `json:"professional_headline" validate:"required"`
	ProfessionalSummary  string `json:"professional_summary" validate:"required"`
}

var stepValidate = validator.New()

func validateStruct(form any) StepValidation {
	err := stepValidate.Struct(form)
	if err == nil {
		return StepValidation{Valid: true}
	}

	fieldErrors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = fe.Tag()
		}
	} else {
		fieldErrors["form"] = err.Error()
	}
	return StepValidation{Valid: false, FieldErrors: fieldErrors}
}

// ValidatePersonalInfo checks the personal-info step's required fields.
func ValidatePersonalInfo(form PersonalInfoForm) StepValidation {
	return validateStruct(form)
}

// ValidateSummary checks the professional-summary step's required fields.
func ValidateSummary(form SummaryForm) StepValidation {
	return validateStruct(form)
}
