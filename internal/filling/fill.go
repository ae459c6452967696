// Package filling substitutes {{ NAME }} placeholders in template fragments.
package filling

import (
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches "{{", optional whitespace, an identifier,
// optional whitespace and "}}". Identifiers are letters, digits and underscore.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Fill replaces every placeholder in fragment with its context value.
// Names are matched case-insensitively; names missing from the context are
// replaced with the empty string. Substituted values are never re-scanned,
// so a value that itself looks like a placeholder is emitted literally.
// A blank fragment yields "".
func Fill(fragment string, ctx map[string]string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if !strings.Contains(fragment, "{{") {
		return fragment
	}

	return placeholderPattern.ReplaceAllStringFunc(fragment, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return ctx[strings.ToUpper(name)]
	})
}

// Placeholders returns the distinct upper-cased names referenced by fragment, sorted.
func Placeholders(fragment string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(fragment, -1) {
		seen[strings.ToUpper(m[1])] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unresolved returns the placeholders of fragment that ctx has no key for.
func Unresolved(fragment string, ctx map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(fragment) {
		if _, ok := ctx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
