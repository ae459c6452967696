package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/emission-renderer/internal/classify"
	"github.com/jonathan/emission-renderer/internal/observability"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the data-entry fields a template declares",
	Long:  "Classify a template's variable declarations into ordered, grouped fields. With --emission, also list the required fields the emission leaves blank.",
	RunE:  runFields,
}

var (
	fieldsTemplateFile string
	fieldsEmissionFile string
	fieldsJSON         bool
)

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsTemplateFile, "template", "t", "", "Path to template JSON or YAML file (required)")
	fieldsCmd.Flags().StringVarP(&fieldsEmissionFile, "emission", "e", "", "Path to emission JSON or YAML file")
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "Print the field descriptors as JSON")
	_ = fieldsCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, _ []string) error {
	tmpl, err := loadTemplate(fieldsTemplateFile)
	if err != nil {
		return err
	}
	result := classify.Classify(tmpl.Variables)

	out := cmd.OutOrStdout()
	if fieldsJSON {
		data, err := json.MarshalIndent(result.Fields, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	printer := observability.NewPrinter(out)
	printer.PrintFields(result)
	printer.PrintWarnings(result.Warnings)

	if fieldsEmissionFile == "" {
		return nil
	}
	emission, err := loadEmission(fieldsEmissionFile)
	if err != nil {
		return err
	}
	missing := classify.MissingRequired(result.Fields, emission)
	if len(missing) == 0 {
		_, err = fmt.Fprintln(out, "Emission is complete.")
		return err
	}
	for _, f := range missing {
		_, _ = fmt.Fprintf(out, "missing required: %s.%s\n", f.TargetSection, f.TargetField)
	}
	return nil
}
