package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/pipeline"
)

var renderBatchCmd = &cobra.Command{
	Use:   "render-batch --template FILE EMISSION...",
	Short: "Render several emissions of one template concurrently",
	Long:  "Render each emission file against the same template with a bounded number of concurrent renders. A failed emission does not stop the others; the command fails if any render failed.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRenderBatch,
}

var (
	batchTemplateFile string
	batchOutputDir    string
	batchWorkers      int
)

func init() {
	renderBatchCmd.Flags().StringVarP(&batchTemplateFile, "template", "t", "", "Path to template JSON or YAML file (required)")
	renderBatchCmd.Flags().StringVarP(&batchOutputDir, "out-dir", "o", "", "Output directory (default: output_dir from config)")
	renderBatchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent renders (default: workers from config)")
	_ = renderBatchCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(renderBatchCmd)
}

func runRenderBatch(cmd *cobra.Command, args []string) error {
	tmpl, err := loadTemplate(batchTemplateFile)
	if err != nil {
		return err
	}

	jobs := make([]pipeline.Job, 0, len(args))
	for _, path := range args {
		emission, err := loadEmission(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, pipeline.Job{Emission: emission, Template: tmpl})
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}
	dir := batchOutputDir
	if dir == "" {
		dir = cfg.OutputDir
	}

	engine, err := newEngine(cfg, logger, true, logProgress)
	if err != nil {
		return err
	}
	results, err := engine.RenderBatch(cmd.Context(), jobs, workers)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	out := cmd.OutOrStdout()
	names := make(map[string]int)
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("render failed", zap.String("input", args[i]), zap.Error(r.Err))
			_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", args[i], r.Err)
			continue
		}
		path := filepath.Join(dir, uniqueName(names, r.Artifact.Filename))
		if err := writeFile(path, r.Artifact.PDF); err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", args[i], err)
			continue
		}
		_, _ = fmt.Fprintf(out, "OK   %s -> %s (%d pages)\n", args[i], path, len(r.Artifact.Pages))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d renders failed", failed, len(results))
	}
	return nil
}

// uniqueName suffixes repeated filenames within one batch: a.pdf, a-2.pdf, ...
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	n := seen[name]
	if n == 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}
