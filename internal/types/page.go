package types

import (
	"fmt"
	"strings"
)

// Page is one physical page of a rendered artifact.
// OffsetY, Width and Height are expressed in the render's output unit.
type Page struct {
	Index   int     `json:"index"`
	Total   int     `json:"total"`
	Label   string  `json:"label"`
	OffsetY float64 `json:"offset_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// PageLabel formats the "{index} of {total}" stamp.
func PageLabel(index, total int) string {
	return fmt.Sprintf("%d of %d", index, total)
}

// CSS reference resolution: 96 px per inch, 25.4 mm per inch.
const (
	CSSPixelsPerInch   = 96.0
	MillimetersPerInch = 25.4
)

// PageSize is a named physical page size in millimetres.
type PageSize struct {
	Name     string  `json:"name" yaml:"name"`
	WidthMM  float64 `json:"width_mm" yaml:"width_mm" validate:"gt=0"`
	HeightMM float64 `json:"height_mm" yaml:"height_mm" validate:"gt=0"`
}

// Known page sizes, portrait.
var (
	PageA4     = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	PageA5     = PageSize{Name: "A5", WidthMM: 148, HeightMM: 210}
	PageLetter = PageSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
	PageLegal  = PageSize{Name: "Legal", WidthMM: 215.9, HeightMM: 355.6}
)

// LookupPageSize resolves a page size by name, case-insensitively.
func LookupPageSize(name string) (PageSize, bool) {
	for _, s := range []PageSize{PageA4, PageA5, PageLetter, PageLegal} {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return PageSize{}, false
}

// Margins are the page margins in millimetres.
type Margins struct {
	Top    float64 `json:"top" yaml:"top" validate:"gte=0"`
	Right  float64 `json:"right" yaml:"right" validate:"gte=0"`
	Bottom float64 `json:"bottom" yaml:"bottom" validate:"gte=0"`
	Left   float64 `json:"left" yaml:"left" validate:"gte=0"`
}

// DefaultMargins leave extra room at the bottom for the page label.
var DefaultMargins = Margins{Top: 10, Right: 10, Bottom: 15, Left: 10}

// PageSetup is the physical layout shared by the stylesheet and the PDF writer.
type PageSetup struct {
	Size    PageSize `json:"size" yaml:"size"`
	Margins Margins  `json:"margins" yaml:"margins"`
}

// DefaultPageSetup is A4 with DefaultMargins.
func DefaultPageSetup() PageSetup {
	return PageSetup{Size: PageA4, Margins: DefaultMargins}
}

// ContentWidth is the printable width in millimetres.
func (p PageSetup) ContentWidth() float64 {
	return p.Size.WidthMM - p.Margins.Left - p.Margins.Right
}

// ContentHeight is the per-page content budget in millimetres.
func (p PageSetup) ContentHeight() float64 {
	return p.Size.HeightMM - p.Margins.Top - p.Margins.Bottom
}

// Validate checks that the margins leave a positive content area.
func (p PageSetup) Validate() error {
	if err := newValidator().Struct(p); err != nil {
		return err
	}
	if p.ContentWidth() <= 0 || p.ContentHeight() <= 0 {
		return fmt.Errorf("margins leave no content area on %s page", p.Size.Name)
	}
	return nil
}

// MMToCSSPixels converts millimetres to CSS pixels.
func MMToCSSPixels(mm float64) float64 {
	return mm / MillimetersPerInch * CSSPixelsPerInch
}
