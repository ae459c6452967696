package variables

import (
	"strings"
	"time"

	"github.com/jonathan/emission-renderer/internal/types"
)

// Default static values for the signer block.
const (
	DefaultSignerName  = "O Presidente"
	DefaultSignerTitle = "Presidente"
)

// Context is the resolved mapping from upper-case variable name to value.
type Context map[string]string

// Lookup returns the value of a variable, matching the name case-insensitively.
func (c Context) Lookup(name string) (string, bool) {
	v, ok := c[strings.ToUpper(strings.TrimSpace(name))]
	return v, ok
}

// Options controls how a context is built.
type Options struct {
	Locale      string
	SignerName  string
	SignerTitle string
	Now         func() time.Time
}

// DefaultOptions returns Portuguese formatting and the default signer block.
func DefaultOptions() Options {
	return Options{
		Locale:      LocalePortuguese,
		SignerName:  DefaultSignerName,
		SignerTitle: DefaultSignerTitle,
		Now:         time.Now,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Locale == "" {
		o.Locale = d.Locale
	}
	if o.SignerName == "" {
		o.SignerName = d.SignerName
	}
	if o.SignerTitle == "" {
		o.SignerTitle = d.SignerTitle
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// Build merges every data source into one context.
// Layers are applied in order, each overwriting keys of the previous ones:
// auto-generated values, static defaults, declaration defaults,
// recipient_data and custom_data. Signer-name aliases are reconciled last.
// Build never fails: missing data degrades to placeholders or empty strings.
func Build(emission *types.Emission, tmpl *types.TemplateDocument, opts Options) Context {
	opts = opts.withDefaults()
	ctx := make(Context)

	ctx.merge(autoGeneratedLayer(emission, tmpl, opts))
	ctx.merge(map[string]string{KeySignerTitle: opts.SignerTitle})

	if tmpl != nil {
		ctx.merge(declarationDefaults(tmpl.Variables))
	}

	if emission != nil {
		ctx.merge(emission.RecipientData)
		ctx.merge(emission.CustomData)
	}

	ctx.reconcileSigner(opts.SignerName)
	return ctx
}

// merge writes a layer over the context, upper-casing each key once.
// Keys of one layer that differ only in case resolve through types.PreferKey.
func (c Context) merge(layer map[string]string) {
	chosen := make(map[string]string, len(layer))
	for k := range layer {
		key := strings.ToUpper(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if prev, ok := chosen[key]; !ok || types.PreferKey(k, prev) {
			chosen[key] = k
		}
	}
	for key, k := range chosen {
		c[key] = layer[k]
	}
}

// reconcileSigner keeps the two signer-name aliases in step.
// A blank value counts as absent.
func (c Context) reconcileSigner(fallback string) {
	primary := strings.TrimSpace(c[KeySignerName])
	alt := strings.TrimSpace(c[KeySignerNameAlt])

	switch {
	case primary != "" && alt == "":
		c[KeySignerNameAlt] = c[KeySignerName]
	case primary == "" && alt != "":
		c[KeySignerName] = c[KeySignerNameAlt]
	case primary == "" && alt == "":
		c[KeySignerName] = fallback
		c[KeySignerNameAlt] = fallback
	}
}

// autoGeneratedLayer derives the values the engine always provides.
func autoGeneratedLayer(emission *types.Emission, tmpl *types.TemplateDocument, opts Options) map[string]string {
	number := PlaceholderNumber
	subject := PlaceholderSubject
	rawDate := ""
	if emission != nil {
		if s := strings.TrimSpace(emission.EmissionNumber); s != "" {
			number = s
		}
		if s := strings.TrimSpace(emission.Subject); s != "" {
			subject = s
		}
		rawDate = strings.TrimSpace(emission.EmissionDate)
	}

	date := FormatDate(opts.Now(), opts.Locale)
	if rawDate != "" {
		if t, ok := ParseDate(rawDate); ok {
			date = FormatDate(t, opts.Locale)
		} else {
			date = rawDate
		}
	}

	version, code := "", ""
	if tmpl != nil {
		version = tmpl.Version
		code = tmpl.Code
	}

	return map[string]string{
		KeyNumber:          number,
		KeyNumberEmission:  number,
		KeyNumberShort:     number,
		KeyDate:            date,
		KeyDateEmission:    date,
		KeyDateCurrent:     FormatDate(opts.Now(), opts.Locale),
		KeySubject:         subject,
		KeySubjectEmission: subject,
		KeyVersion:         version,
		KeyTemplateCode:    templateCode(code, version),
	}
}

// templateCode joins code and version as "CODE vVERSION" when both exist.
func templateCode(code, version string) string {
	code = strings.TrimSpace(code)
	version = strings.TrimSpace(version)
	switch {
	case code != "" && version != "":
		return code + " v" + version
	case code != "":
		return code
	default:
		return version
	}
}

// declarationDefaults collects declared default values, first region wins.
func declarationDefaults(decls types.VariableDeclarations) map[string]string {
	out := make(map[string]string)
	for _, region := range types.Regions() {
		for _, d := range decls.InRegion(region) {
			if d.DefaultValue == "" || IsAutoGenerated(d.Name) {
				continue
			}
			key := strings.ToUpper(strings.TrimSpace(d.Name))
			if _, seen := out[key]; !seen {
				out[key] = d.DefaultValue
			}
		}
	}
	return out
}
