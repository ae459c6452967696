package pipeline

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/emission-renderer/internal/types"
)

// Job is one emission to render in a batch.
type Job struct {
	Emission *types.Emission
	Template *types.TemplateDocument
}

// BatchResult pairs a job with its outcome. Exactly one of Artifact and
// Err is set.
type BatchResult struct {
	Job      Job
	Artifact *Artifact
	Err      error
}

// RenderBatch renders jobs concurrently with at most workers renders in
// flight. A failed job does not stop the others; results keep job order.
// The returned error is non-nil only when ctx ends before all jobs ran.
func (e *Engine) RenderBatch(ctx context.Context, jobs []Job, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		results[i].Job = job
		if gCtx.Err() != nil {
			results[i].Err = gCtx.Err()
			continue
		}
		g.Go(func() error {
			artifact, err := e.Render(gCtx, job.Emission, job.Template)
			results[i].Artifact = artifact
			results[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.logger.Info("batch rendered",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", failed),
		zap.Int("workers", workers),
	)
	return results, ctx.Err()
}
