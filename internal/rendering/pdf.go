package rendering

import (
	"bytes"
	"fmt"

	"github.com/jonathan/emission-renderer/internal/raster"
	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/lvillar/gofpdf"
)

const surfaceImageName = "emission-surface"

// Label defaults.
const (
	DefaultLabelFont     = "Helvetica"
	DefaultLabelFontSize = 8.0 // pt
)

// PDFOptions controls document metadata and the page label stamp.
type PDFOptions struct {
	Title         string
	Author        string
	LabelFont     string
	LabelFontSize float64
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.LabelFont == "" {
		o.LabelFont = DefaultLabelFont
	}
	if o.LabelFontSize <= 0 {
		o.LabelFontSize = DefaultLabelFontSize
	}
	return o
}

// PDFWriter writes sliced pages of one surface into a PDF.
type PDFWriter struct {
	Setup   types.PageSetup
	Options PDFOptions
}

// Write draws the surface once per page, shifted by the page offset and
// clipped to the content window, then stamps the page label in the
// bottom-right corner of the bottom margin.
func (w *PDFWriter) Write(surface *raster.Surface, pages []types.Page) ([]byte, error) {
	if err := CheckSurface(surface); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, &RenderError{Message: "no pages to write"}
	}

	opts := w.Options.withDefaults()
	setup := w.Setup
	contentWidth := setup.ContentWidth()
	contentHeight := SurfaceHeight(surface, contentWidth)
	budget := setup.ContentHeight()
	m := setup.Margins

	pdf := gofpdf.NewDocument(
		gofpdf.WithUnit("mm"),
		gofpdf.WithPageSizeCustom(setup.Size.WidthMM, setup.Size.HeightMM),
	)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("emission-renderer", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(surfaceImageName, imageOpts, bytes.NewReader(surface.PNG))
	if pdf.Err() {
		return nil, &RenderError{Message: "failed to register surface image", Cause: pdf.Error()}
	}

	for _, page := range pages {
		pdf.AddPage()

		pdf.ClipRect(m.Left, m.Top, contentWidth, budget, false)
		pdf.ImageOptions(surfaceImageName, m.Left, m.Top+page.OffsetY, contentWidth, contentHeight, false, imageOpts, 0, "")
		pdf.ClipEnd()

		pdf.SetFont(opts.LabelFont, "", opts.LabelFontSize)
		pdf.SetTextColor(80, 80, 80)
		labelWidth := pdf.GetStringWidth(page.Label)
		pdf.Text(setup.Size.WidthMM-m.Right-labelWidth, setup.Size.HeightMM-labelBaseline(m.Bottom), page.Label)
	}

	if pdf.Err() {
		return nil, &RenderError{Message: "failed to draw pages", Cause: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return buf.Bytes(), nil
}

// labelBaseline places the label baseline inside the bottom margin, or 4mm
// above the edge when the margin is too thin to hold it.
func labelBaseline(bottom float64) float64 {
	if bottom < 8 {
		return 4
	}
	return bottom / 2
}

// describe is used in log fields.
func describe(setup types.PageSetup) string {
	return fmt.Sprintf("%s %gx%gmm", setup.Size.Name, setup.Size.WidthMM, setup.Size.HeightMM)
}
