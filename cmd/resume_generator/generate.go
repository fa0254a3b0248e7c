package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-generator/internal/observability"
	"github.com/jonathan/resume-generator/internal/pipeline"
)

var (
	generateJobFile string
	generateOutFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored resume for a job description",
	Long:  `Analyze a job description, retrieve the most relevant resume fragments from the vector store, and assemble a tailored JSON-Resume document with a fit narrative. Reads the job description from --job or stdin.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateJobFile, "job", "j", "", "Path to job description text file (default: stdin)")
	generateCmd.Flags().StringVarP(&generateOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	jobDescription, err := readInput(generateJobFile)
	if err != nil {
		return err
	}
	if jobDescription == "" {
		return fmt.Errorf("job description is empty")
	}

	ctx := context.Background()
	c, cleanup, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		onProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Stage, event.Message)
		}
	}

	result, err := c.assembler.Generate(ctx, jobDescription, onProgress)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintJobQuery(result.JobQuery)
		printer.PrintResume(result.Resume)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	return writeJSON(generateOutFile, result)
}

// readInput reads from the given file, or stdin when path is empty.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// writeJSON writes v to the given file, or stdout when path is empty.
func writeJSON(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
