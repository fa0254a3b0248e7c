package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-generator/internal/observability"
	"github.com/jonathan/resume-generator/internal/types"
)

var (
	updateInputFile   string
	updateMode        string
	updateContentType string
	updateSectionHint string
	updateReplaceAll  bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Apply new content to the stored resume",
	Long:  `Ingest resume content (JSON-Resume sections, markdown, or plain text), normalize it into structured entries, and apply it to the stored resume. Reads content from --in or stdin.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateInputFile, "in", "i", "", "Path to content file (default: stdin)")
	updateCmd.Flags().StringVarP(&updateMode, "mode", "m", "merge", "Update mode: merge, replace, or append")
	updateCmd.Flags().StringVarP(&updateContentType, "type", "t", "auto", "Content type: auto, json, markdown, or text")
	updateCmd.Flags().StringVarP(&updateSectionHint, "section", "s", "", "Section hint for unstructured content (basics, work, skills, projects, education)")
	updateCmd.Flags().BoolVar(&updateReplaceAll, "replace-all", false, "Replace the entire stored resume instead of applying a sectional update")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content, err := readInput(updateInputFile)
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("content is empty")
	}

	ctx := context.Background()
	c, cleanup, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var stats *types.UpdateStats
	if updateReplaceAll {
		stats, err = c.updater.ReplaceContent(ctx, content, types.ContentType(updateContentType))
	} else {
		stats, err = c.updater.Apply(ctx, &types.UpdateRequest{
			Content:     content,
			UpdateMode:  types.UpdateMode(updateMode),
			ContentType: types.ContentType(updateContentType),
			SectionHint: types.Section(updateSectionHint),
		})
	}
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintUpdateStats(stats)
	return nil
}
