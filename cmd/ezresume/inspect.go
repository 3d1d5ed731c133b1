package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ezresume/internal/db"
	"github.com/jonathan/ezresume/internal/observability"
)

var inspectUserID string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a user's stored profile data",
	Long:  `Connects to the database and prints a formatted summary of a user's profile, onboarding progress, work history, skills and resumes.`,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectUserID, "user", "", "User ID to inspect (required)")

	if err := inspectCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(inspectUserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", inspectUserID, err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	profile, err := database.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("no profile found for user %s", userID)
	}

	experiences, err := database.ListExperiences(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load experiences: %w", err)
	}
	skills, err := database.ListSkills(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	resumes, err := database.ListResumes(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load resumes: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintProfile(profile)
	printer.PrintExperiences(experiences)
	printer.PrintSkills(skills)
	printer.PrintResumes(resumes)

	return nil
}
