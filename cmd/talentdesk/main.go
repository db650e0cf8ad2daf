// Package main provides the entry point for the TalentDesk CRM API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentdesk",
	Short: "TalentDesk recruitment CRM API server",
	Long:  "TalentDesk tracks companies and contacts with attachable addresses, emails, phones and custom fields, exposed as a JSON REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
