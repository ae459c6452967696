package layout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default rendered size limits for the logo image, in CSS pixels.
const (
	DefaultLogoMaxWidth  = 180
	DefaultLogoMaxHeight = 80
)

// LogoOptions controls the injected image element.
type LogoOptions struct {
	MaxWidth  int    // CSS px; <= 0 uses DefaultLogoMaxWidth
	MaxHeight int    // CSS px; <= 0 uses DefaultLogoMaxHeight
	Alt       string // alt text; empty uses "logo"
}

func (o LogoOptions) withDefaults() LogoOptions {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultLogoMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultLogoMaxHeight
	}
	if o.Alt == "" {
		o.Alt = "logo"
	}
	return o
}

// SlotSelector matches candidate logo slots: table cells inside a table.
const SlotSelector = "table td"

// InjectLogo places the logo into the first empty table cell of a header
// fragment. The cell keeps its attributes; its contents become a centered,
// size-constrained image.
//
// When the logo reference is blank, the fragment cannot be parsed, or it
// has no empty cell, the header is returned byte-for-byte unchanged.
func InjectLogo(header, logoURL string, opts LogoOptions) string {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL == "" || strings.TrimSpace(header) == "" {
		return header
	}

	root, err := parseFragment(header)
	if err != nil {
		return header
	}

	doc := goquery.NewDocumentFromNode(root)
	slot := firstEmptyCell(doc.Selection)
	if slot.Length() == 0 {
		return header
	}

	slot.Empty()
	slot.AppendNodes(imageNode(logoURL, opts.withDefaults()))

	out, err := renderChildren(root)
	if err != nil {
		return header
	}
	return out
}

// HasLogoSlot reports whether a fragment contains a table cell InjectLogo would use.
func HasLogoSlot(fragment string) (bool, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return false, &ParseError{Message: "failed to parse fragment", Cause: err}
	}
	return firstEmptyCell(goquery.NewDocumentFromNode(root).Selection).Length() > 0, nil
}

// firstEmptyCell returns the first table cell, in document order, with no
// element children and only whitespace or non-breaking spaces as text.
func firstEmptyCell(s *goquery.Selection) *goquery.Selection {
	return s.Find(SlotSelector).FilterFunction(func(_ int, cell *goquery.Selection) bool {
		return isEmptyCell(cell)
	}).First()
}

func isEmptyCell(cell *goquery.Selection) bool {
	if cell.Children().Length() > 0 {
		return false
	}
	return strings.TrimFunc(cell.Text(), unicode.IsSpace) == ""
}

// imageNode builds the <img> element placed into the slot.
func imageNode(src string, opts LogoOptions) *html.Node {
	style := fmt.Sprintf(
		"display:block;margin:0 auto;max-width:%dpx;max-height:%dpx;width:auto;height:auto;",
		opts.MaxWidth, opts.MaxHeight,
	)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr: []html.Attribute{
			{Key: "src", Val: src},
			{Key: "alt", Val: opts.Alt},
			{Key: "class", Val: "emission-logo"},
			{Key: "style", Val: style},
		},
	}
}

// parseFragment parses markup in a <body> context and hangs the resulting
// nodes off a detached <div>, so leading <style> or <table> elements stay
// where the template author put them.
func parseFragment(fragment string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func renderChildren(root *html.Node) (string, error) {
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
