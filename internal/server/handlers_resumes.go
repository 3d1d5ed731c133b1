package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ezresume/internal/builder"
	"github.com/jonathan/ezresume/internal/server/middleware"
	"github.com/jonathan/ezresume/internal/types"
)

// CreateResumeRequest is the body for POST /resumes.
type CreateResumeRequest struct {
	Title string `json:"title"`
}

// RenameResumeRequest is the body for PUT /resumes/{id}.
type RenameResumeRequest struct {
	Title string `json:"title"`
}

// ResumeResponse is a resume with its current document. When an editor
// session is live the document reflects unsaved edits, not just the row.
type ResumeResponse struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Content   types.ResumeData `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// resumePath parses the {id} path segment as a resume id.
func (s *Server) resumePath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume id")
		return uuid.Nil, false
	}
	return id, true
}

// builderSession resolves the authenticated user's editor session for the
// resume in the path, writing the error response itself on failure.
func (s *Server) builderSession(w http.ResponseWriter, r *http.Request) (*builder.Session, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	resumeID, ok := s.resumePath(w, r)
	if !ok {
		return nil, false
	}

	session, err := s.sessions.Builder(r.Context(), userID, resumeID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	return session, true
}

// handleCreateResume creates an empty resume owned by the caller.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		req.Title = "Untitled Resume"
	}

	resumeID, err := s.store.CreateResume(r.Context(), userID, req.Title)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]uuid.UUID{"id": resumeID})
}

// handleListResumes lists the caller's resumes without content.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list resumes")
		return
	}
	if resumes == nil {
		resumes = []types.Resume{}
	}

	s.jsonResponse(w, http.StatusOK, resumes)
}

// handleGetResume returns a resume with its working document.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	session, ok := s.builderSession(w, r)
	if !ok {
		return
	}

	resume, err := s.store.GetResume(r.Context(), session.ResumeID())
	if err != nil || resume == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		ID:        resume.ID,
		Title:     resume.Title,
		Content:   session.Snapshot(),
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	})
}

// handleRenameResume updates the resume title. Titles persist immediately,
// outside the autosave path.
func (s *Server) handleRenameResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	resumeID, ok := s.resumePath(w, r)
	if !ok {
		return
	}

	var req RenameResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	if !s.ownsResume(w, r, userID, resumeID) {
		return
	}

	if err := s.store.RenameResume(r.Context(), resumeID, req.Title); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to rename resume")
		return
	}
	// A live edit session still carries the old title in its document; patch
	// it so the next autosave does not write the rename back out.
	s.sessions.RenameLive(resumeID, req.Title)
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteResume discards any live editor session and removes the row.
// Pending edits are intentionally not flushed.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	resumeID, ok := s.resumePath(w, r)
	if !ok {
		return
	}

	if !s.ownsResume(w, r, userID, resumeID) {
		return
	}

	s.sessions.Discard(resumeID)
	if err := s.store.DeleteResume(r.Context(), resumeID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete resume")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateResumeContent merges a partial document into the editor
// session and schedules an autosave.
func (s *Server) handleUpdateResumeContent(w http.ResponseWriter, r *http.Request) {
	session, ok := s.builderSession(w, r)
	if !ok {
		return
	}

	var patch builder.DataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session.Update(patch)
	s.jsonResponse(w, http.StatusOK, session.Snapshot())
}

// handleSaveResume flushes the editor session immediately.
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	session, ok := s.builderSession(w, r)
	if !ok {
		return
	}

	if err := session.SaveNow(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"saved": true})
}

// handleGetProfile returns the caller's persisted profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// ownsResume verifies the resume exists and belongs to the caller, writing
// the error response itself on failure.
func (s *Server) ownsResume(w http.ResponseWriter, r *http.Request, userID, resumeID uuid.UUID) bool {
	resume, err := s.store.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load resume")
		return false
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, builder.ErrResumeNotFound.Error())
		return false
	}
	if resume.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, builder.ErrNotOwner.Error())
		return false
	}
	return true
}
