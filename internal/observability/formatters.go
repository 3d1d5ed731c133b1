// Package observability provides formatted output utilities for the CLI
// inspect command.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ezresume/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the inspect command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of a user profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.FullName))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Email))
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", profile.Location))
	}
	if profile.ProfessionalHeadline != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", profile.ProfessionalHeadline))
	}
	sb.WriteString("\n")

	if profile.OnboardingCompleted {
		sb.WriteString("Onboarding: completed")
		if profile.OnboardingCompletedAt != nil {
			sb.WriteString(fmt.Sprintf(" at %s", profile.OnboardingCompletedAt.Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("Onboarding: at step %d\n", profile.OnboardingCurrentStep))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExperiences outputs the stored work history.
func (p *Printer) PrintExperiences(experiences []types.Experience) {
	if len(experiences) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total entries: %d\n\n", len(experiences)))

	count := min(len(experiences), maxItemsToShow)
	for i := 0; i < count; i++ {
		exp := experiences[i]
		sb.WriteString(fmt.Sprintf("#%d  %s — %s\n", i+1, exp.JobTitle, exp.CompanyName))
		dates := exp.StartDate
		if exp.IsCurrent {
			dates += " – present"
		} else if exp.EndDate != "" {
			dates += " – " + exp.EndDate
		}
		sb.WriteString(fmt.Sprintf("    %s\n", dates))
		if len(exp.TechnologiesUsed) > 0 {
			tech := strings.Join(exp.TechnologiesUsed, ", ")
			if len(tech) > 40 {
				tech = tech[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Tech: %s\n", tech))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(experiences) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more\n", len(experiences)-maxItemsToShow))
	}

	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs the stored skills, one line per skill.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(skills), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		s := skills[i]
		sb.WriteString(fmt.Sprintf("  • %s", s.SkillName))
		if s.ProficiencyLevel != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", s.ProficiencyLevel))
		}
		sb.WriteString("\n")
	}
	if len(skills) > count {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-count))
	}

	p.printBox("SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumes outputs the user's resume list.
func (p *Printer) PrintResumes(resumes []types.Resume) {
	if len(resumes) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total resumes: %d\n\n", len(resumes)))
	for i, r := range resumes {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("    id %s, updated %s\n", r.ID, r.UpdatedAt.Format("2006-01-02 15:04")))
		if i < len(resumes)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RESUMES", strings.TrimSuffix(sb.String(), "\n"))
}
