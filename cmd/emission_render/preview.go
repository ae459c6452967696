package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/emission-renderer/internal/classify"
	"github.com/jonathan/emission-renderer/internal/observability"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Assemble the HTML document without rasterizing it",
	Long:  "Fill the template with the emission data and write the assembled HTML document. No browser is started. Unresolved placeholders and missing required fields are reported on stderr.",
	RunE:  runPreview,
}

var (
	previewTemplateFile string
	previewEmissionFile string
	previewOutputFile   string
)

func init() {
	previewCmd.Flags().StringVarP(&previewTemplateFile, "template", "t", "", "Path to template JSON or YAML file (required)")
	previewCmd.Flags().StringVarP(&previewEmissionFile, "emission", "e", "", "Path to emission JSON or YAML file")
	previewCmd.Flags().StringVarP(&previewOutputFile, "out", "o", "", "Output HTML path (default: stdout)")
	_ = previewCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	tmpl, err := loadTemplate(previewTemplateFile)
	if err != nil {
		return err
	}
	emission, err := loadEmission(previewEmissionFile)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, logger, false, logProgress)
	if err != nil {
		return err
	}
	prepared, err := engine.Preview(emission, tmpl)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	printer.PrintUnresolved(prepared.Unresolved)
	if missing := classify.MissingRequired(classify.Classify(tmpl.Variables).Fields, emission); len(missing) > 0 {
		printer.PrintFields(&classify.Result{Fields: missing})
	}

	if previewOutputFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), prepared.Document)
		return err
	}
	return writeFile(previewOutputFile, []byte(prepared.Document))
}
