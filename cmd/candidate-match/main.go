// Package main provides the entry point for the candidate-match service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "candidate-match",
	Short: "Consultant matching service",
	Long:  "candidate-match finds and ranks the best-fitting consultants for customer project requests using skill matching and AI-assisted CV review.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
