package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-generator/internal/observability"
)

var (
	showOutFile string
	showSummary bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored resume",
	Long:  `Reconstruct the resume document from the fragments in the vector store and print it as JSON-Resume, or print per-section counts with --summary.`,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	showCmd.Flags().BoolVar(&showSummary, "summary", false, "Print per-section fragment counts instead of the document")
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, cleanup, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if showSummary {
		summary, err := c.retriever.Summarize(ctx)
		if err != nil {
			return fmt.Errorf("failed to summarize stored resume: %w", err)
		}
		observability.NewPrinter(os.Stdout).PrintStoreSummary(summary)
		return nil
	}

	doc, err := c.retriever.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored resume: %w", err)
	}
	return writeJSON(showOutFile, doc)
}
