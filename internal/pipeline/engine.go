package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/assembly"
	"github.com/jonathan/emission-renderer/internal/filling"
	"github.com/jonathan/emission-renderer/internal/layout"
	"github.com/jonathan/emission-renderer/internal/rendering"
	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/jonathan/emission-renderer/internal/variables"
)

// Options configures an Engine.
type Options struct {
	Context    variables.Options
	Assembly   assembly.Options
	Logo       layout.LogoOptions
	Logger     *zap.Logger
	OnProgress ProgressCallback
	// FetchLogo, when set, replaces a remote logo reference with the
	// returned one (typically a data URI) before rendering. Failures keep
	// the original reference.
	FetchLogo LogoFetcher
}

// LogoFetcher resolves a remote logo URL to a self-contained reference.
type LogoFetcher func(ctx context.Context, url string) (string, error)

// Engine renders emissions. It is safe for concurrent use when its
// Paginator is.
type Engine struct {
	paginator rendering.Paginator
	opts      Options
	logger    *zap.Logger
}

// NewEngine returns an engine. A nil paginator limits it to previews.
func NewEngine(paginator rendering.Paginator, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{paginator: paginator, opts: opts, logger: logger}
}

// Prepared is an assembled document that has not been paginated.
type Prepared struct {
	Context   variables.Context
	Fragments assembly.Fragments
	Document  string
	// Unresolved lists placeholders referenced by the template that have no
	// value in the context, sorted.
	Unresolved []string
}

// Artifact is the paginated output of one render.
type Artifact struct {
	EmissionID uuid.UUID
	Filename   string
	PDF        []byte
	Pages      []types.Page
	Document   string
	Engine     string
	RenderedAt time.Time
}

// Preview builds the context, fills the three fragments, injects the logo
// and assembles the HTML document. No browser is involved.
func (e *Engine) Preview(emission *types.Emission, tmpl *types.TemplateDocument) (*Prepared, error) {
	if tmpl == nil {
		return nil, &MissingTemplateError{Message: "template not found"}
	}
	if !tmpl.HasBody() {
		return nil, &MissingTemplateError{Message: fmt.Sprintf("template %s has no body fragment", templateName(tmpl))}
	}

	id := emissionID(emission)

	vars := variables.Build(emission, tmpl, e.opts.Context)
	e.emitProgress(id, StageContext, fmt.Sprintf("Resolved %d variables", len(vars)), nil)

	fragments := assembly.Fragments{
		Header: filling.Fill(tmpl.HeaderFragment, vars),
		Body:   filling.Fill(tmpl.BodyFragment, vars),
		Footer: filling.Fill(tmpl.FooterFragment, vars),
	}
	unresolved := unresolvedPlaceholders(tmpl, vars)
	e.emitProgress(id, StageFill, "Filled header, body and footer", unresolved)

	if tmpl.LogoReference != "" {
		fragments.Header = layout.InjectLogo(fragments.Header, tmpl.LogoReference, e.opts.Logo)
		e.emitProgress(id, StageLayout, "Injected logo into header", nil)
	}

	asmOpts := e.opts.Assembly
	if asmOpts.Title == "" {
		asmOpts.Title = documentTitle(emission, tmpl)
	}
	document, err := assembly.Assemble(fragments, asmOpts)
	if err != nil {
		return nil, err
	}
	e.emitProgress(id, StageAssemble, fmt.Sprintf("Assembled document (%d bytes)", len(document)), nil)

	return &Prepared{
		Context:    vars,
		Fragments:  fragments,
		Document:   document,
		Unresolved: unresolved,
	}, nil
}

// Render runs the full pipeline and returns the paginated artifact.
// Nothing is persisted here; callers store the artifact only after
// Render succeeds.
func (e *Engine) Render(ctx context.Context, emission *types.Emission, tmpl *types.TemplateDocument) (*Artifact, error) {
	start := time.Now()
	id := emissionID(emission)

	tmpl = e.inlineLogo(ctx, tmpl)
	prepared, err := e.Preview(emission, tmpl)
	if err != nil {
		e.logger.Warn("render aborted", zap.String("emission_id", id), zap.Error(err))
		return nil, err
	}
	if e.paginator == nil {
		return nil, &rendering.RenderError{Message: "no paginator configured"}
	}

	result, err := e.paginator.Render(ctx, prepared.Document)
	if err != nil {
		e.logger.Error("pagination failed", zap.String("emission_id", id), zap.Error(err))
		return nil, err
	}
	e.emitProgress(id, StagePaginate, fmt.Sprintf("Paginated into %d pages", len(result.Pages)), result.Pages)

	now := e.now()
	artifact := &Artifact{
		Filename:   SuggestedFilename(emissionNumber(emission), now),
		PDF:        result.PDF,
		Pages:      result.Pages,
		Document:   prepared.Document,
		Engine:     result.Engine,
		RenderedAt: now,
	}
	if emission != nil {
		artifact.EmissionID = emission.ID
	}

	e.logger.Info("emission rendered",
		zap.String("emission_id", id),
		zap.String("template", templateName(tmpl)),
		zap.Int("pages", len(result.Pages)),
		zap.Strings("unresolved", prepared.Unresolved),
		zap.Duration("elapsed", time.Since(start)),
	)
	return artifact, nil
}

func (e *Engine) now() time.Time {
	if e.opts.Context.Now != nil {
		return e.opts.Context.Now()
	}
	return time.Now()
}

// unresolvedPlaceholders merges the unresolved names of all three fragments.
func unresolvedPlaceholders(tmpl *types.TemplateDocument, vars variables.Context) []string {
	seen := make(map[string]struct{})
	for _, r := range types.Regions() {
		for _, name := range filling.Unresolved(tmpl.Fragment(r), vars) {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func documentTitle(emission *types.Emission, tmpl *types.TemplateDocument) string {
	var parts []string
	if emission != nil {
		if n := strings.TrimSpace(emission.EmissionNumber); n != "" {
			parts = append(parts, n)
		}
		if s := strings.TrimSpace(emission.Subject); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return templateName(tmpl)
	}
	return strings.Join(parts, " - ")
}

func templateName(tmpl *types.TemplateDocument) string {
	if tmpl == nil {
		return ""
	}
	if tmpl.Code != "" {
		return tmpl.Code
	}
	return tmpl.ID.String()
}

func emissionID(emission *types.Emission) string {
	if emission == nil || emission.ID == uuid.Nil {
		return ""
	}
	return emission.ID.String()
}

func emissionNumber(emission *types.Emission) string {
	if emission == nil {
		return ""
	}
	return emission.EmissionNumber
}

// inlineLogo returns a copy of tmpl whose remote logo has been fetched.
func (e *Engine) inlineLogo(ctx context.Context, tmpl *types.TemplateDocument) *types.TemplateDocument {
	if e.opts.FetchLogo == nil || tmpl == nil || !isRemote(tmpl.LogoReference) {
		return tmpl
	}
	ref, err := e.opts.FetchLogo(ctx, tmpl.LogoReference)
	if err != nil || ref == "" {
		e.logger.Warn("logo not inlined", zap.String("logo", tmpl.LogoReference), zap.Error(err))
		return tmpl
	}
	inlined := *tmpl
	inlined.LogoReference = ref
	return &inlined
}

func isRemote(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
