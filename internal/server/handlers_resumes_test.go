package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/types"
)

func createResume(t *testing.T, s *Server, userID uuid.UUID, title string) uuid.UUID {
	t.Helper()
	rec := doRequest(t, s, userID, "POST", "/resumes", CreateResumeRequest{Title: title})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create resume: status %d %s", rec.Code, rec.Body.String())
	}
	return decodeBody[map[string]uuid.UUID](t, rec)["id"]
}

func TestResumes_CreateAndList(t *testing.T) {
	s, _ := newTestServer(t)
	userID := uuid.New()

	createResume(t, s, userID, "Backend Resume")
	createResume(t, s, userID, "Frontend Resume")

	rec := doRequest(t, s, userID, "GET", "/resumes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	resumes := decodeBody[[]types.Resume](t, rec)
	if len(resumes) != 2 {
		t.Errorf("expected 2 resumes, got %d", len(resumes))
	}

	// Another user sees nothing
	rec = doRequest(t, s, uuid.New(), "GET", "/resumes", nil)
	resumes = decodeBody[[]types.Resume](t, rec)
	if len(resumes) != 0 {
		t.Errorf("expected empty list for other user, got %d", len(resumes))
	}
}

func TestResumes_GetStartsDefaultDocument(t *testing.T) {
	s, _ := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "My Resume")

	rec := doRequest(t, s, userID, "GET", "/resumes/"+resumeID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[ResumeResponse](t, rec)
	if resp.Content.Title != "My Resume" {
		t.Errorf("default document should carry the resume title, got %q", resp.Content.Title)
	}
	if resp.Content.Template == "" {
		t.Error("default document should pick a template")
	}
}

func TestResumes_OwnershipEnforced(t *testing.T) {
	s, _ := newTestServer(t)
	owner := uuid.New()
	intruder := uuid.New()
	resumeID := createResume(t, s, owner, "Private")

	rec := doRequest(t, s, intruder, "GET", "/resumes/"+resumeID.String(), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %d", rec.Code)
	}

	rec = doRequest(t, s, intruder, "DELETE", "/resumes/"+resumeID.String(), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", rec.Code)
	}
}

func TestResumes_UnknownID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, uuid.New(), "GET", "/resumes/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown resume, got %d", rec.Code)
	}

	rec = doRequest(t, s, uuid.New(), "GET", "/resumes/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestResumes_ContentUpdateAndSave(t *testing.T) {
	s, store := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "My Resume")

	summary := "Seasoned backend engineer."
	rec := doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String()+"/content", map[string]any{
		"summary": summary,
		"contact": types.ContactInfo{FullName: "Jane Doe", Email: "jane@example.com"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update content: status %d %s", rec.Code, rec.Body.String())
	}
	data := decodeBody[types.ResumeData](t, rec)
	if data.Summary != summary {
		t.Errorf("merge lost summary: %q", data.Summary)
	}
	if data.Title != "My Resume" {
		t.Errorf("merge clobbered untouched title: %q", data.Title)
	}

	// Nothing persisted yet; the explicit save flushes
	if raw, _ := store.GetResumeContent(context.Background(), resumeID); raw != nil {
		t.Error("content persisted before save")
	}
	rec = doRequest(t, s, userID, "POST", "/resumes/"+resumeID.String()+"/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status %d %s", rec.Code, rec.Body.String())
	}
	raw, _ := store.GetResumeContent(context.Background(), resumeID)
	if raw == nil {
		t.Fatal("content not persisted after save")
	}
}

func TestResumes_AutosaveFiresAfterQuietWindow(t *testing.T) {
	s, store := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "My Resume")

	doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String()+"/content", map[string]any{
		"summary": "draft one",
	})
	doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String()+"/content", map[string]any{
		"summary": "draft two",
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if raw, _ := store.GetResumeContent(context.Background(), resumeID); raw != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	raw, _ := store.GetResumeContent(context.Background(), resumeID)
	if raw == nil {
		t.Fatal("autosave never fired")
	}
	resume, _ := store.GetResume(context.Background(), resumeID)
	if resume.Content == nil || resume.Content.Summary != "draft two" {
		t.Errorf("autosave should capture the final edit, got %+v", resume.Content)
	}
}

func TestResumes_Rename(t *testing.T) {
	s, store := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "Old Title")

	rec := doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String(), RenameResumeRequest{Title: "New Title"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename: status %d %s", rec.Code, rec.Body.String())
	}

	resume, _ := store.GetResume(context.Background(), resumeID)
	if resume.Title != "New Title" {
		t.Errorf("rename not persisted: %q", resume.Title)
	}

	rec = doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String(), RenameResumeRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty title, got %d", rec.Code)
	}
}

func TestResumes_RenameSurvivesLiveSessionSave(t *testing.T) {
	s, store := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "Old Title")

	// Open a live edit session holding the old title in its document
	rec := doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String()+"/content", map[string]any{
		"summary": "draft",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("content update: status %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String(), RenameResumeRequest{Title: "New Title"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename: status %d %s", rec.Code, rec.Body.String())
	}

	// A save from the still-live session must not write the old title back
	rec = doRequest(t, s, userID, "POST", "/resumes/"+resumeID.String()+"/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status %d %s", rec.Code, rec.Body.String())
	}

	resume, _ := store.GetResume(context.Background(), resumeID)
	if resume.Title != "New Title" {
		t.Errorf("save reverted the rename: %q", resume.Title)
	}

	rec = doRequest(t, s, userID, "GET", "/resumes/"+resumeID.String(), nil)
	if got := decodeBody[ResumeResponse](t, rec); got.Content.Title != "New Title" {
		t.Errorf("live document still carries the old title: %q", got.Content.Title)
	}
}

func TestResumes_DeleteDiscardsPendingEdits(t *testing.T) {
	s, store := newTestServer(t)
	userID := uuid.New()
	resumeID := createResume(t, s, userID, "Doomed")

	doRequest(t, s, userID, "PUT", "/resumes/"+resumeID.String()+"/content", map[string]any{
		"summary": "never persisted",
	})

	rec := doRequest(t, s, userID, "DELETE", "/resumes/"+resumeID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d %s", rec.Code, rec.Body.String())
	}

	// The discarded session's pending autosave must not resurrect the row
	time.Sleep(100 * time.Millisecond)
	resume, _ := store.GetResume(context.Background(), resumeID)
	if resume != nil {
		t.Error("resume still present after delete")
	}
	if raw, _ := store.GetResumeContent(context.Background(), resumeID); raw != nil {
		t.Error("pending edits persisted after delete")
	}
}
