package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/ezresume/internal/generate"
	"github.com/jonathan/ezresume/internal/server/middleware"
	"github.com/jonathan/ezresume/internal/types"
)

// GenerateRequest is the body for POST /generate. The document comes either
// from an existing resume (by id, through the caller's editor session) or
// inline; targeting hints are optional.
type GenerateRequest struct {
	ResumeID        *uuid.UUID        `json:"resume_id,omitempty"`
	Resume          *types.ResumeData `json:"resume,omitempty"`
	TargetRole      string            `json:"target_role,omitempty"`
	TargetIndustry  string            `json:"target_industry,omitempty"`
	ExperienceLevel string            `json:"experience_level,omitempty"`
}

// GenerateResponse carries the model's generated resume text.
type GenerateResponse struct {
	Content string `json:"content"`
}

// handleGenerate runs AI generation over a resume document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	level, err := generate.ParseExperienceLevel(req.ExperienceLevel)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var resume types.ResumeData
	switch {
	case req.ResumeID != nil:
		session, err := s.sessions.Builder(r.Context(), userID, *req.ResumeID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		resume = session.Snapshot()
	case req.Resume != nil:
		resume = *req.Resume
	default:
		s.errorResponse(w, http.StatusBadRequest, "resume_id or resume is required")
		return
	}

	content, err := s.generator.Generate(r.Context(), generate.Request{
		Resume:         resume,
		TargetRole:     req.TargetRole,
		TargetIndustry: req.TargetIndustry,
		Level:          level,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, GenerateResponse{Content: content})
}
