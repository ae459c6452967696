package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/db"
	"github.com/jonathan/emission-renderer/internal/observability"
	"github.com/jonathan/emission-renderer/internal/pipeline"
	"github.com/jonathan/emission-renderer/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an emission to a paginated PDF",
	Long: `Render an emission against its template and write the numbered PDF.

Inputs come either from files (--template and optionally --emission) or from
the database (--emission-id), in which case the artifact is stored and the
emission becomes issued. Issued emissions are only re-rendered with --force.`,
	RunE: runRender,
}

var (
	renderTemplateFile string
	renderEmissionFile string
	renderOutputFile   string
	renderEmissionID   string
	renderForce        bool
	renderDatabaseURL  string
)

func init() {
	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "Path to template JSON or YAML file")
	renderCmd.Flags().StringVarP(&renderEmissionFile, "emission", "e", "", "Path to emission JSON or YAML file")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Output PDF path (default: <output_dir>/<suggested filename>)")
	renderCmd.Flags().StringVar(&renderEmissionID, "emission-id", "", "Emission ID to load from the database")
	renderCmd.Flags().BoolVar(&renderForce, "force", false, "Re-render an issued emission (with --emission-id)")
	renderCmd.Flags().StringVar(&renderDatabaseURL, "db-url", "", "Database URL (default: DATABASE_URL)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	useDatabase := renderEmissionID != ""
	useFiles := renderTemplateFile != "" || renderEmissionFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --emission-id with --template/--emission")
	}
	if !useDatabase && renderTemplateFile == "" {
		return fmt.Errorf("must provide either --emission-id or --template")
	}

	ctx := cmd.Context()
	engine, err := newEngine(cfg, logger, true, logProgress)
	if err != nil {
		return err
	}

	var (
		emission *types.Emission
		tmpl     *types.TemplateDocument
		database *db.DB
		id       uuid.UUID
	)

	if useDatabase {
		id, err = uuid.Parse(renderEmissionID)
		if err != nil {
			return fmt.Errorf("invalid --emission-id: %w", err)
		}
		database, err = connect(ctx, renderDatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		emission, tmpl, err = loadStored(ctx, database, id, renderForce)
		if err != nil {
			return err
		}
	} else {
		if tmpl, err = loadTemplate(renderTemplateFile); err != nil {
			return err
		}
		if emission, err = loadEmission(renderEmissionFile); err != nil {
			return err
		}
	}

	artifact, err := engine.Render(ctx, emission, tmpl)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	path := outputPath(renderOutputFile, cfg.OutputDir, artifact.Filename)
	if err := writeFile(path, artifact.PDF); err != nil {
		return err
	}

	if useDatabase {
		stored, err := database.SaveArtifact(ctx, id, &db.ArtifactInput{
			Filename:  artifact.Filename,
			PDF:       artifact.PDF,
			PageCount: len(artifact.Pages),
			Engine:    artifact.Engine,
		}, renderForce)
		if err != nil {
			return fmt.Errorf("failed to store artifact: %w", err)
		}
		logger.Info("artifact stored",
			zap.String("emission_id", id.String()),
			zap.String("artifact_id", stored.ID.String()),
		)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintPages(artifact.Pages)
		printer.PrintArtifact(artifact)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", path, len(artifact.Pages))
	return nil
}

// connect opens the database at url, falling back to the configured one.
func connect(ctx context.Context, url string) (*db.DB, error) {
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("database URL is required (--db-url or DATABASE_URL)")
	}
	return db.Connect(ctx, url)
}

// loadStored loads an emission and its template, refusing issued emissions
// unless force is set.
func loadStored(ctx context.Context, database *db.DB, id uuid.UUID, force bool) (*types.Emission, *types.TemplateDocument, error) {
	emission, err := database.GetEmission(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if emission == nil {
		return nil, nil, &db.NotFoundError{Kind: "emission", ID: id}
	}
	if !emission.IsEditable() && !force {
		return nil, nil, &db.LifecycleError{EmissionID: id, Status: string(emission.Status), Message: "use --force to re-render"}
	}

	tmpl, err := database.GetTemplate(ctx, emission.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	if tmpl == nil {
		return nil, nil, &pipeline.MissingTemplateError{Message: fmt.Sprintf("template %s not found", emission.TemplateID)}
	}
	return emission, tmpl, nil
}

// logProgress reports pipeline stages at debug level.
func logProgress(event pipeline.ProgressEvent) {
	logger.Debug("render progress",
		zap.String("stage", event.Stage),
		zap.String("emission_id", event.EmissionID),
		zap.String("message", event.Message),
	)
}
