package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ezresume/internal/types"
)

const profileColumns = `id, user_id, onboarding_completed, onboarding_completed_at,
	onboarding_current_step, full_name, email, phone, location, linkedin_url,
	github_url, website_url, professional_summary, professional_headline,
	years_of_experience, target_roles, target_industries, job_search_status,
	preferred_locations, open_to_remote, created_at, updated_at`

func scanProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.OnboardingCompleted, &p.OnboardingCompletedAt,
		&p.OnboardingCurrentStep, &p.FullName, &p.Email, &p.Phone, &p.Location,
		&p.LinkedInURL, &p.GitHubURL, &p.WebsiteURL, &p.ProfessionalSummary,
		&p.ProfessionalHeadline, &p.YearsOfExperience, &p.TargetRoles,
		&p.TargetIndustries, &p.JobSearchStatus, &p.PreferredLocations,
		&p.OpenToRemote, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile retrieves a user profile by user ID. Returns nil without error
// when no profile row exists yet (expected for fresh accounts).
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	profile, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpsertProfile merges the partial personal info into the stored profile row,
// creating the row if needed. Later keys win; fields not set on info keep
// their stored values.
func (db *DB) UpsertProfile(ctx context.Context, userID uuid.UUID, info types.PersonalInfo) error {
	existing, err := db.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	merged := types.FromProfile(existing)
	merged.Merge(info)

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, full_name, email, phone, location,
			linkedin_url, github_url, website_url, professional_summary,
			professional_headline, years_of_experience, target_roles,
			target_industries, job_search_status, preferred_locations, open_to_remote)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (user_id) DO UPDATE SET
			full_name = $2, email = $3, phone = $4, location = $5,
			linkedin_url = $6, github_url = $7, website_url = $8,
			professional_summary = $9, professional_headline = $10,
			years_of_experience = $11, target_roles = $12, target_industries = $13,
			job_search_status = $14, preferred_locations = $15,
			open_to_remote = $16, updated_at = NOW()`,
		userID,
		strOrEmpty(merged.FullName), strOrEmpty(merged.Email),
		strOrEmpty(merged.Phone), strOrEmpty(merged.Location),
		strOrEmpty(merged.LinkedInURL), strOrEmpty(merged.GitHubURL),
		strOrEmpty(merged.WebsiteURL), strOrEmpty(merged.ProfessionalSummary),
		strOrEmpty(merged.ProfessionalHeadline), merged.YearsOfExperience,
		merged.TargetRoles, merged.TargetIndustries,
		statusOrEmpty(merged.JobSearchStatus), merged.PreferredLocations,
		boolOrFalse(merged.OpenToRemote),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// UpdateOnboardingStep persists the wizard step cursor, creating the profile
// row if the user has not saved any personal info yet.
func (db *DB) UpdateOnboardingStep(ctx context.Context, userID uuid.UUID, step int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, full_name, email, onboarding_current_step)
		 VALUES ($1, '', '', $2)
		 ON CONFLICT (user_id) DO UPDATE SET
			onboarding_current_step = $2, updated_at = NOW()`,
		userID, step,
	)
	if err != nil {
		return fmt.Errorf("failed to update onboarding step: %w", err)
	}
	return nil
}

// CompleteOnboarding marks onboarding as finished with a completion timestamp.
func (db *DB) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE user_profiles
		 SET onboarding_completed = TRUE, onboarding_completed_at = NOW(), updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found for user: %s", userID)
	}
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusOrEmpty(s *types.JobSearchStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func boolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
