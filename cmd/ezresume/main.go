// Package main provides the entry point for the EZResume HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ezresume",
	Short: "EZResume HTTP API Server",
	Long:  "EZResume guides users through a step-by-step onboarding wizard, stores their professional profile, and builds AI-assisted resumes via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
