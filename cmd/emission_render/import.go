package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/emission-renderer/internal/types"
)

var importCmd = &cobra.Command{
	Use:   "import --template FILE [EMISSION...]",
	Short: "Store a template and draft emissions in the database",
	Long:  "Save a template (updating it when its id already exists) and create one draft emission per emission file, linked to the template. Prints the stored IDs.",
	RunE:  runImport,
}

var (
	importTemplateFile string
	importDatabaseURL  string
)

func init() {
	importCmd.Flags().StringVarP(&importTemplateFile, "template", "t", "", "Path to template JSON or YAML file (required)")
	importCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "Database URL (default: DATABASE_URL)")
	_ = importCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	tmpl, err := loadTemplate(importTemplateFile)
	if err != nil {
		return err
	}
	emissions := make([]*types.Emission, 0, len(args))
	for _, path := range args {
		emission, err := loadEmission(path)
		if err != nil {
			return err
		}
		emissions = append(emissions, emission)
	}

	ctx := cmd.Context()
	database, err := connect(ctx, importDatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	templateID, err := database.SaveTemplate(ctx, tmpl)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "template %s\n", templateID)

	for i, emission := range emissions {
		emission.TemplateID = templateID
		emission.Status = types.StatusDraft
		id, err := database.CreateEmission(ctx, emission)
		if err != nil {
			return fmt.Errorf("failed to create emission from %s: %w", args[i], err)
		}
		_, _ = fmt.Fprintf(out, "emission %s (%s)\n", id, args[i])
	}
	return nil
}
