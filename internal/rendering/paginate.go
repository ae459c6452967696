package rendering

import (
	"fmt"
	"math"

	"github.com/jonathan/emission-renderer/internal/types"
)

// pageCountEpsilon absorbs float noise, in the unit of the content height,
// so content that fills an exact multiple of the budget does not spill onto
// a blank extra page.
const pageCountEpsilon = 1e-6

// PageCount returns the number of pages needed for contentHeight at the given
// per-page budget. Both are in the same unit. Content that fits one budget is
// one page; otherwise the count is ceil(contentHeight / budget).
func PageCount(contentHeight, budget float64) int {
	if budget <= 0 {
		return 0
	}
	if contentHeight <= budget {
		return 1
	}
	n := math.Ceil(contentHeight / budget)
	if (n-1)*budget >= contentHeight-pageCountEpsilon {
		n--
	}
	return int(n)
}

// Paginate lays out contentHeight millimetres of content over pages of the
// given setup. Page i shows the window starting at i*budget, expressed as
// the negative OffsetY applied to the surface.
func Paginate(contentHeight float64, setup types.PageSetup) ([]types.Page, error) {
	if err := setup.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid page setup", Cause: err}
	}
	if contentHeight <= 0 || math.IsNaN(contentHeight) || math.IsInf(contentHeight, 0) {
		return nil, &RenderError{Message: fmt.Sprintf("implausible content height %v", contentHeight)}
	}

	budget := setup.ContentHeight()
	total := PageCount(contentHeight, budget)

	pages := make([]types.Page, total)
	for i := range pages {
		pages[i] = types.Page{
			Index:   i + 1,
			Total:   total,
			Label:   types.PageLabel(i+1, total),
			OffsetY: -float64(i) * budget,
			Width:   setup.Size.WidthMM,
			Height:  setup.Size.HeightMM,
		}
	}
	return pages, nil
}
