// Package main provides the entry point for the resume generator service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_generator",
	Short: "Retrieval-augmented resume generation service",
	Long:  "Resume Generator analyzes job descriptions, retrieves matching resume fragments from a vector store, and assembles tailored JSON-Resume documents with a fit narrative.",
}

var (
	configPath  string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
