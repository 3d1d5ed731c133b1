package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ezresume/internal/types"
)

// The collection writers below implement whole-collection replace: delete
// every row for the user, then bulk-insert the in-memory sequence. Each
// replace runs in one transaction so the row set is atomic, but there is no
// transaction across collections. Entities with temporary ids are inserted
// without an id column so the database assigns one; order_index is recomputed
// from slice position at insert time.

// ReplaceExperiences replaces the user's experience rows with the given
// sequence.
func (db *DB) ReplaceExperiences(ctx context.Context, userID uuid.UUID, experiences []types.Experience) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_experiences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete experiences: %w", err)
	}

	for i, exp := range experiences {
		if id, ok := exp.ID.UUID(); ok {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_experiences (id, user_id, company_name, job_title,
					location, start_date, end_date, is_current, description,
					key_achievements, technologies_used, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				id, userID, exp.CompanyName, exp.JobTitle, exp.Location,
				exp.StartDate, exp.EndDate, exp.IsCurrent, exp.Description,
				exp.KeyAchievements, exp.TechnologiesUsed, i,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_experiences (user_id, company_name, job_title,
					location, start_date, end_date, is_current, description,
					key_achievements, technologies_used, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				userID, exp.CompanyName, exp.JobTitle, exp.Location,
				exp.StartDate, exp.EndDate, exp.IsCurrent, exp.Description,
				exp.KeyAchievements, exp.TechnologiesUsed, i,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit experiences: %w", err)
	}
	return nil
}

// ListExperiences retrieves the user's experiences ordered by order_index.
func (db *DB) ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_name, job_title, location, start_date, end_date,
			is_current, description, key_achievements, technologies_used, order_index
		 FROM user_experiences WHERE user_id = $1 ORDER BY order_index`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var experiences []types.Experience
	for rows.Next() {
		var exp types.Experience
		var id uuid.UUID
		if err := rows.Scan(&id, &exp.CompanyName, &exp.JobTitle, &exp.Location,
			&exp.StartDate, &exp.EndDate, &exp.IsCurrent, &exp.Description,
			&exp.KeyAchievements, &exp.TechnologiesUsed, &exp.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		exp.ID = types.PersistedID(id)
		experiences = append(experiences, exp)
	}
	return experiences, nil
}

// ReplaceEducation replaces the user's education rows with the given sequence.
func (db *DB) ReplaceEducation(ctx context.Context, userID uuid.UUID, education []types.Education) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_education WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}

	for i, edu := range education {
		if id, ok := edu.ID.UUID(); ok {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_education (id, user_id, institution_name, degree_type,
					field_of_study, location, start_date, graduation_date, gpa,
					relevant_coursework, honors_awards, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				id, userID, edu.InstitutionName, edu.DegreeType, edu.FieldOfStudy,
				edu.Location, edu.StartDate, edu.GraduationDate, edu.GPA,
				edu.RelevantCoursework, edu.HonorsAwards, i,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_education (user_id, institution_name, degree_type,
					field_of_study, location, start_date, graduation_date, gpa,
					relevant_coursework, honors_awards, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				userID, edu.InstitutionName, edu.DegreeType, edu.FieldOfStudy,
				edu.Location, edu.StartDate, edu.GraduationDate, edu.GPA,
				edu.RelevantCoursework, edu.HonorsAwards, i,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit education: %w", err)
	}
	return nil
}

// ListEducation retrieves the user's education entries ordered by order_index.
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, institution_name, degree_type, field_of_study, location,
			start_date, graduation_date, gpa, relevant_coursework, honors_awards, order_index
		 FROM user_education WHERE user_id = $1 ORDER BY order_index`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var education []types.Education
	for rows.Next() {
		var edu types.Education
		var id uuid.UUID
		if err := rows.Scan(&id, &edu.InstitutionName, &edu.DegreeType,
			&edu.FieldOfStudy, &edu.Location, &edu.StartDate, &edu.GraduationDate,
			&edu.GPA, &edu.RelevantCoursework, &edu.HonorsAwards, &edu.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		edu.ID = types.PersistedID(id)
		education = append(education, edu)
	}
	return education, nil
}

// ReplaceSkills replaces the user's skill rows. Skills carry no order index.
func (db *DB) ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []types.Skill) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete skills: %w", err)
	}

	for _, skill := range skills {
		if id, ok := skill.ID.UUID(); ok {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_skills (id, user_id, skill_name, skill_category,
					proficiency_level, years_of_experience)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				id, userID, skill.SkillName, skill.SkillCategory,
				skill.ProficiencyLevel, skill.YearsOfExperience,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_skills (user_id, skill_name, skill_category,
					proficiency_level, years_of_experience)
				 VALUES ($1, $2, $3, $4, $5)`,
				userID, skill.SkillName, skill.SkillCategory,
				skill.ProficiencyLevel, skill.YearsOfExperience,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert skill: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit skills: %w", err)
	}
	return nil
}

// ListSkills retrieves the user's skills.
func (db *DB) ListSkills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, skill_name, skill_category, proficiency_level, years_of_experience
		 FROM user_skills WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []types.Skill
	for rows.Next() {
		var skill types.Skill
		var id uuid.UUID
		if err := rows.Scan(&id, &skill.SkillName, &skill.SkillCategory,
			&skill.ProficiencyLevel, &skill.YearsOfExperience); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skill.ID = types.PersistedID(id)
		skills = append(skills, skill)
	}
	return skills, nil
}

// ReplaceProjects replaces the user's project rows with the given sequence.
func (db *DB) ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []types.Project) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_projects WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete projects: %w", err)
	}

	for i, project := range projects {
		if id, ok := project.ID.UUID(); ok {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_projects (id, user_id, project_name, description,
					role, technologies_used, project_url, start_date, end_date,
					key_achievements, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				id, userID, project.ProjectName, project.Description, project.Role,
				project.TechnologiesUsed, project.ProjectURL, project.StartDate,
				project.EndDate, project.KeyAchievements, i,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_projects (user_id, project_name, description,
					role, technologies_used, project_url, start_date, end_date,
					key_achievements, order_index)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				userID, project.ProjectName, project.Description, project.Role,
				project.TechnologiesUsed, project.ProjectURL, project.StartDate,
				project.EndDate, project.KeyAchievements, i,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit projects: %w", err)
	}
	return nil
}

// ListProjects retrieves the user's projects ordered by order_index.
func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]types.Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_name, description, role, technologies_used,
			project_url, start_date, end_date, key_achievements, order_index
		 FROM user_projects WHERE user_id = $1 ORDER BY order_index`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var project types.Project
		var id uuid.UUID
		if err := rows.Scan(&id, &project.ProjectName, &project.Description,
			&project.Role, &project.TechnologiesUsed, &project.ProjectURL,
			&project.StartDate, &project.EndDate, &project.KeyAchievements,
			&project.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		project.ID = types.PersistedID(id)
		projects = append(projects, project)
	}
	return projects, nil
}

// ReplaceCertifications replaces the user's certification rows.
// Certifications carry no order index.
func (db *DB) ReplaceCertifications(ctx context.Context, userID uuid.UUID, certifications []types.Certification) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_certifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete certifications: %w", err)
	}

	for _, cert := range certifications {
		if id, ok := cert.ID.UUID(); ok {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_certifications (id, user_id, certification_name,
					issuing_organization, issue_date, expiry_date, credential_id, credential_url)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				id, userID, cert.CertificationName, cert.IssuingOrganization,
				cert.IssueDate, cert.ExpiryDate, cert.CredentialID, cert.CredentialURL,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_certifications (user_id, certification_name,
					issuing_organization, issue_date, expiry_date, credential_id, credential_url)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				userID, cert.CertificationName, cert.IssuingOrganization,
				cert.IssueDate, cert.ExpiryDate, cert.CredentialID, cert.CredentialURL,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit certifications: %w", err)
	}
	return nil
}

// ListCertifications retrieves the user's certifications.
func (db *DB) ListCertifications(ctx context.Context, userID uuid.UUID) ([]types.Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, certification_name, issuing_organization, issue_date,
			expiry_date, credential_id, credential_url
		 FROM user_certifications WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certifications []types.Certification
	for rows.Next() {
		var cert types.Certification
		var id uuid.UUID
		if err := rows.Scan(&id, &cert.CertificationName, &cert.IssuingOrganization,
			&cert.IssueDate, &cert.ExpiryDate, &cert.CredentialID, &cert.CredentialURL); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		cert.ID = types.PersistedID(id)
		certifications = append(certifications, cert)
	}
	return certifications, nil
}
