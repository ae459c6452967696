package assembly

import (
	_ "embed"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/emission-renderer/internal/types"
)

//go:embed document.html.tmpl
var documentTemplate string

// Fragment contents are trusted template HTML and are inserted verbatim,
// which is why text/template is used rather than html/template. Values from
// emission data, such as the title, go through the html func.
var document = template.Must(template.New("document").Funcs(template.FuncMap{
	"mm": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
	},
}).Parse(documentTemplate))

// Defaults for the document typography.
const (
	DefaultFontFamily    = `"Helvetica Neue", Arial, sans-serif`
	DefaultFontSizePt    = 11
	DefaultFooterReserve = 20 // mm kept free above the pinned print footer
)

// Options controls the assembled document.
type Options struct {
	Setup      types.PageSetup
	Title      string
	Lang       string
	FontFamily string
	FontSizePt float64
	// FooterReserve is the space in mm kept below the body in print media so
	// the fixed footer never covers flowing text.
	FooterReserve float64
	ExtraCSS      string
}

// DefaultOptions returns an A4 document in Portuguese with default margins.
func DefaultOptions() Options {
	return Options{
		Setup:         types.DefaultPageSetup(),
		Lang:          "pt",
		FontFamily:    DefaultFontFamily,
		FontSizePt:    DefaultFontSizePt,
		FooterReserve: DefaultFooterReserve,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	// Margins only default together with the page size; a sized page with
	// zero margins is a full-bleed layout.
	if o.Setup.Size.WidthMM <= 0 || o.Setup.Size.HeightMM <= 0 {
		o.Setup.Size = d.Setup.Size
		if o.Setup.Margins == (types.Margins{}) {
			o.Setup.Margins = d.Setup.Margins
		}
	}
	if o.Lang == "" {
		o.Lang = d.Lang
	}
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.FontSizePt <= 0 {
		o.FontSizePt = d.FontSizePt
	}
	if o.FooterReserve <= 0 {
		o.FooterReserve = d.FooterReserve
	}
	return o
}

// Fragments holds the filled header, body and footer of one emission.
type Fragments struct {
	Header string
	Body   string
	Footer string
}

type documentData struct {
	Options
	Header       string
	Body         string
	Footer       string
	ContentWidth float64
}

// Assemble wraps filled fragments in a complete HTML document with the print
// stylesheet. The header region does not repeat, the body flows and the
// footer is pinned to the bottom of every printed page.
//
// A body with no visible content fails with a RenderError("empty body").
func Assemble(f Fragments, opts Options) (string, error) {
	if IsBlank(f.Body) {
		return "", &RenderError{Message: ErrEmptyBodyMessage}
	}

	opts = opts.withDefaults()
	if err := opts.Setup.Validate(); err != nil {
		return "", &RenderError{Message: "invalid page setup", Cause: err}
	}

	data := documentData{
		Options:      opts,
		Header:       strings.TrimSpace(f.Header),
		Body:         strings.TrimSpace(f.Body),
		Footer:       strings.TrimSpace(f.Footer),
		ContentWidth: opts.Setup.ContentWidth(),
	}

	var out strings.Builder
	if err := document.Execute(&out, data); err != nil {
		return "", &RenderError{Message: "failed to execute document template", Cause: err}
	}
	return out.String(), nil
}

// IsBlank reports whether a fragment renders nothing: no text beyond
// whitespace and no embedded media.
func IsBlank(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return true
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return false
	}
	if doc.Find("img, svg, canvas, hr, table, iframe, object").Length() > 0 {
		return false
	}
	return strings.TrimFunc(doc.Find("body").Text(), unicode.IsSpace) == ""
}
