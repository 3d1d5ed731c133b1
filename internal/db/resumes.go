package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ezresume/internal/types"
)

// CreateResume creates a new resume row with a default empty document and
// returns its ID.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string) (uuid.UUID, error) {
	content, err := json.Marshal(types.DefaultResumeData(title))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume content: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, title, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID. Returns nil without error when the
// resume does not exist.
func (db *DB) GetResume(ctx context.Context, resumeID uuid.UUID) (*types.Resume, error) {
	var resume types.Resume
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		resumeID,
	).Scan(&resume.ID, &resume.UserID, &resume.Title, &content,
		&resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if len(content) > 0 {
		var data types.ResumeData
		if err := json.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("failed to parse resume content: %w", err)
		}
		resume.Content = &data
	}
	return &resume, nil
}

// GetResumeContent retrieves the raw document blob for schema validation.
func (db *DB) GetResumeContent(ctx context.Context, resumeID uuid.UUID) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM resumes WHERE id = $1`,
		resumeID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume content: %w", err)
	}
	return content, nil
}

// ListResumes retrieves the user's resumes, most recently updated first.
// Content blobs are not loaded.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []types.Resume
	for rows.Next() {
		var resume types.Resume
		if err := rows.Scan(&resume.ID, &resume.UserID, &resume.Title,
			&resume.CreatedAt, &resume.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, resume)
	}
	return resumes, nil
}

// UpdateResumeContent replaces the document blob and bumps updated_at.
func (db *DB) UpdateResumeContent(ctx context.Context, resumeID uuid.UUID, data *types.ResumeData) error {
	content, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal resume content: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET content = $1, title = $2, updated_at = NOW() WHERE id = $3`,
		content, data.Title, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// RenameResume updates a resume's title.
func (db *DB) RenameResume(ctx context.Context, resumeID uuid.UUID, title string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, updated_at = NOW() WHERE id = $2`,
		title, resumeID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// DeleteResume deletes a resume row.
func (db *DB) DeleteResume(ctx context.Context, resumeID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}
