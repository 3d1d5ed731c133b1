package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/ezresume/internal/onboarding"
	"github.com/jonathan/ezresume/internal/server/middleware"
	"github.com/jonathan/ezresume/internal/types"
)

// OnboardingStateResponse is the wizard state returned by GET /onboarding.
type OnboardingStateResponse struct {
	Step      int             `json:"step"`
	StepName  string          `json:"step_name"`
	StepCount int             `json:"step_count"`
	Completed bool            `json:"completed"`
	Data      onboarding.Data `json:"data"`
}

// StepResponse is returned by the navigation endpoints.
type StepResponse struct {
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
}

// EntityIDResponse is returned when a collection entity is created.
type EntityIDResponse struct {
	ID types.EntityID `json:"id"`
}

// onboardingSession resolves the authenticated user's wizard session,
// writing the error response itself on failure.
func (s *Server) onboardingSession(w http.ResponseWriter, r *http.Request) (*onboarding.Session, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	session, err := s.sessions.Onboarding(r.Context(), userID)
	if err != nil {
		if errors.Is(err, onboarding.ErrOnboardingComplete) {
			s.errorResponse(w, http.StatusConflict, "onboarding already completed")
			return nil, false
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	return session, true
}

// entityID parses the {id} path segment, accepting both temporary tokens
// and persisted ids.
func (s *Server) entityID(w http.ResponseWriter, r *http.Request) (types.EntityID, bool) {
	id, err := types.ParseEntityID(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid entity id")
		return types.EntityID{}, false
	}
	return id, true
}

// handleGetOnboarding returns the wizard's full working state.
func (s *Server) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	step := session.Step()
	s.jsonResponse(w, http.StatusOK, OnboardingStateResponse{
		Step:      step,
		StepName:  onboarding.StepNames[step],
		StepCount: onboarding.StepCount,
		Completed: session.Completed(),
		Data:      session.Store().Snapshot(),
	})
}

// handleUpdatePersonalInfo merges a partial personal-info record.
func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var patch types.PersonalInfo
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdatePersonalInfo(patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var input types.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := session.Store().AddExperience(input)
	s.jsonResponse(w, http.StatusCreated, EntityIDResponse{ID: id})
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var patch types.ExperiencePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdateExperience(id, patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	session.Store().RemoveExperience(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var input types.EducationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := session.Store().AddEducation(input)
	s.jsonResponse(w, http.StatusCreated, EntityIDResponse{ID: id})
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var patch types.EducationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdateEducation(id, patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	session.Store().RemoveEducation(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var input types.SkillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := session.Store().AddSkill(input)
	s.jsonResponse(w, http.StatusCreated, EntityIDResponse{ID: id})
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var patch types.SkillPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdateSkill(id, patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	session.Store().RemoveSkill(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var input types.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := session.Store().AddProject(input)
	s.jsonResponse(w, http.StatusCreated, EntityIDResponse{ID: id})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var patch types.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdateProject(id, patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	session.Store().RemoveProject(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCertification(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	var input types.CertificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := session.Store().AddCertification(input)
	s.jsonResponse(w, http.StatusCreated, EntityIDResponse{ID: id})
}

func (s *Server) handleUpdateCertification(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	var patch types.CertificationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Store().UpdateCertification(id, patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCertification(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}
	id, ok := s.entityID(w, r)
	if !ok {
		return
	}

	session.Store().RemoveCertification(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleNext advances the wizard. Steps with required fields are validated
// from the working data first; a failed validation returns the field errors
// without moving the cursor.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	if result := validateStep(session); !result.Valid {
		s.jsonResponse(w, http.StatusUnprocessableEntity, result)
		return
	}

	session.Next(r.Context())
	step := session.Step()
	s.jsonResponse(w, http.StatusOK, StepResponse{Step: step, StepName: onboarding.StepNames[step]})
}

// handleBack returns to the previous step. Never validates.
func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	session.Back(r.Context())
	step := session.Step()
	s.jsonResponse(w, http.StatusOK, StepResponse{Step: step, StepName: onboarding.StepNames[step]})
}

// handleSkip advances without validation.
func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	session.Skip(r.Context())
	step := session.Step()
	s.jsonResponse(w, http.StatusOK, StepResponse{Step: step, StepName: onboarding.StepNames[step]})
}

// handleComplete runs the final flush and marks onboarding finished. The
// session is dropped from the registry on success.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	if err := session.Complete(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.sessions.DropOnboarding(userID)
	s.jsonResponse(w, http.StatusOK, map[string]bool{"completed": true})
}

// handleSaveOnboarding flushes immediately; a save already in flight is a
// conflict, not a queue.
func (s *Server) handleSaveOnboarding(w http.ResponseWriter, r *http.Request) {
	session, ok := s.onboardingSession(w, r)
	if !ok {
		return
	}

	if err := session.SaveNow(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"saved": true})
}

// validateStep checks the current step's required fields against the
// working data. Steps without required fields always pass.
func validateStep(session *onboarding.Session) onboarding.StepValidation {
	data := session.Store().Snapshot()

	switch session.Step() {
	case onboarding.StepPersonalInfo:
		info := data.PersonalInfo
		return onboarding.ValidatePersonalInfo(onboarding.PersonalInfoForm{
			FullName: strValue(info.FullName),
			Email:    strValue(info.Email),
			Phone:    strValue(info.Phone),
			Location: strValue(info.Location),
		})
	case onboarding.StepProfessionalSummary:
		info := data.PersonalInfo
		return onboarding.ValidateSummary(onboarding.SummaryForm{
			ProfessionalHeadline: strValue(info.ProfessionalHeadline),
			ProfessionalSummary:  strValue(info.ProfessionalSummary),
		})
	default:
		return onboarding.StepValidation{Valid: true}
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
