// Package generate assembles resume-writing prompts and runs them against
// the Gemini completion endpoint.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/ezresume/internal/types"
)

// ErrInsufficientData is returned when the resume document lacks the minimum
// information a useful generation needs.
var ErrInsufficientData = errors.New("resume data is missing required information")

// Request is one generation request: the structured document plus optional
// targeting hints.
type Request struct {
	Resume         types.ResumeData
	TargetRole     string
	TargetIndustry string
	Level          ExperienceLevel
}

// Generator runs resume generations through a completion client.
type Generator struct {
	client Client
}

// NewGenerator creates a Generator on top of a completion client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// Generate serializes the resume document as the user message, composes the
// system prompt from the request's targeting hints, and returns the model's
// text. Missing key, network failure and empty responses all surface as one
// error to the caller.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := checkMinimumData(req.Resume); err != nil {
		return "", err
	}

	system := BuildSystemPrompt(req.TargetRole, req.TargetIndustry, req.Level)

	user, err := json.MarshalIndent(req.Resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize resume data: %w", err)
	}

	text, err := g.client.Complete(ctx, system, string(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate resume: %w", err)
	}

	text = cleanCodeBlock(text)
	if text == "" {
		return "", fmt.Errorf("failed to generate resume: empty response")
	}
	return text, nil
}

// checkMinimumData rejects documents without contact identity or any
// experience to write about.
func checkMinimumData(data types.ResumeData) error {
	var missing []string
	if data.Contact.FullName == "" {
		missing = append(missing, "full name")
	}
	if data.Contact.Email == "" {
		missing = append(missing, "email")
	}
	if len(data.Experience) == 0 && len(data.Education) == 0 {
		missing = append(missing, "experience or education")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrInsufficientData, missing)
	}
	return nil
}
