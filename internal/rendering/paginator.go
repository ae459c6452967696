package rendering

import (
	"context"
	"math"
	"time"

	"github.com/jonathan/emission-renderer/internal/raster"
	"github.com/jonathan/emission-renderer/internal/types"
	"go.uber.org/zap"
)

// Result is a paginated artifact.
type Result struct {
	Pages []types.Page
	PDF   []byte

	// ContentHeight and Budget are in millimetres.
	ContentHeight float64
	Budget        float64
	Engine        string
}

// Paginator turns an assembled HTML document into numbered pages.
// RasterPaginator slices a screenshot; a flow-based implementation can
// replace it without touching the rest of the pipeline.
type Paginator interface {
	Render(ctx context.Context, document string) (*Result, error)
}

// RasterPaginator rasterizes the document once and slices the surface into pages.
type RasterPaginator struct {
	Rasterizer raster.Rasterizer
	Setup      types.PageSetup
	Scale      float64
	Timeout    time.Duration
	PDF        PDFOptions
	Logger     *zap.Logger
}

// Render implements Paginator.
func (p *RasterPaginator) Render(ctx context.Context, document string) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if p.Rasterizer == nil {
		return nil, &RenderError{Message: "no rasterizer configured"}
	}
	if err := p.Setup.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid page setup", Cause: err}
	}

	viewport := int(math.Round(types.MMToCSSPixels(p.Setup.ContentWidth())))
	surface, err := p.Rasterizer.Rasterize(ctx, document, raster.Options{
		ViewportWidth: viewport,
		Scale:         p.Scale,
		Timeout:       p.Timeout,
	})
	if err != nil {
		return nil, &RenderError{Message: "rasterization failed", Cause: err}
	}
	if err := CheckSurface(surface); err != nil {
		return nil, err
	}

	contentHeight := SurfaceHeight(surface, p.Setup.ContentWidth())
	pages, err := Paginate(contentHeight, p.Setup)
	if err != nil {
		return nil, err
	}

	writer := &PDFWriter{Setup: p.Setup, Options: p.PDF}
	data, err := writer.Write(surface, pages)
	if err != nil {
		return nil, err
	}

	logger.Info("document paginated",
		zap.String("engine", p.Rasterizer.Name()),
		zap.String("page_setup", describe(p.Setup)),
		zap.Float64("content_height_mm", contentHeight),
		zap.Int("pages", len(pages)),
		zap.Int("pdf_bytes", len(data)),
	)

	return &Result{
		Pages:         pages,
		PDF:           data,
		ContentHeight: contentHeight,
		Budget:        p.Setup.ContentHeight(),
		Engine:        p.Rasterizer.Name(),
	}, nil
}
