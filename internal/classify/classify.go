package classify

import (
	"sort"
	"strings"

	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/jonathan/emission-renderer/internal/variables"
)

// Result is the outcome of classifying a template's declarations.
type Result struct {
	Fields   []types.FieldDescriptor  `json:"fields"`
	Warnings []*ClassificationWarning `json:"-"`
}

// Classify builds the field list for a set of declarations.
//
// Auto-generated names are skipped. Declarations are read header, body,
// footer; the first declaration of a canonical target field wins and later
// ones are recorded as its aliases. Required is copied verbatim. Fields are
// returned grouped by category, addressee and requester groups ordered by
// field priority, with DisplayOrder set to the 1-based position.
func Classify(decls types.VariableDeclarations) *Result {
	res := &Result{}
	byField := make(map[string]int)
	var fields []types.FieldDescriptor

	for _, region := range types.Regions() {
		for _, d := range decls.InRegion(region) {
			name := strings.ToUpper(strings.TrimSpace(d.Name))
			if name == "" || variables.IsAutoGenerated(name) {
				continue
			}

			t := lookupTarget(name, region)
			if i, seen := byField[t.Field]; seen {
				fields[i].Aliases = appendAlias(fields[i], name)
				continue
			}

			fd := types.FieldDescriptor{
				TargetField:    t.Field,
				TargetSection:  t.Section,
				Required:       d.Required,
				DocumentRegion: region,
				SourceName:     name,
				Label:          d.Label,
				TypeHint:       d.TypeHint,
				DefaultValue:   d.DefaultValue,
			}
			category, ok := categorize(name, t.Field, region)
			if !ok {
				res.Warnings = append(res.Warnings, &ClassificationWarning{
					Name:    name,
					Region:  region,
					Message: "no category matched, using other",
				})
			}
			fd.SemanticCategory = category

			byField[t.Field] = len(fields)
			fields = append(fields, fd)
		}
	}

	res.Fields = order(fields)
	return res
}

// categorize assigns exactly one category. The boolean is false when only
// the catch-all "other" matched, which the region fallback rules out for
// header, body and footer declarations.
func categorize(name, field string, region types.Region) (types.Category, bool) {
	// the signer name belongs to the signature group and nowhere else
	if field == FieldSignerName {
		return types.CategorySignature, true
	}
	if _, ok := referenceFields[field]; ok {
		return types.CategoryReference, true
	}
	if field == FieldSignerTitle {
		return types.CategorySignatureDetail, true
	}

	switch {
	case region == types.RegionHeader:
		return types.CategoryAddressee, true
	case region == types.RegionBody || strings.Contains(name, requesterMarker):
		return types.CategoryRequester, true
	case region == types.RegionFooter:
		return types.CategorySignatureDetail, true
	default:
		return types.CategoryOther, false
	}
}

// order sorts fields by category, applies the priority list inside the
// addressee and requester groups and numbers the result.
// Ties keep declaration order.
func order(fields []types.FieldDescriptor) []types.FieldDescriptor {
	out := make([]types.FieldDescriptor, len(fields))
	copy(out, fields)

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := categoryOrder[out[i].SemanticCategory], categoryOrder[out[j].SemanticCategory]
		if ci != cj {
			return ci < cj
		}
		if prioritized(out[i].SemanticCategory) {
			return priorityRank(out[i].TargetField) < priorityRank(out[j].TargetField)
		}
		return false
	})

	for i := range out {
		out[i].DisplayOrder = i + 1
	}
	return out
}

// prioritized reports whether a category is reordered by field priority.
func prioritized(c types.Category) bool {
	return c == types.CategoryAddressee || c == types.CategoryRequester
}

// appendAlias records a folded declaration name once.
func appendAlias(fd types.FieldDescriptor, name string) []string {
	if strings.EqualFold(fd.SourceName, name) {
		return fd.Aliases
	}
	for _, a := range fd.Aliases {
		if a == name {
			return fd.Aliases
		}
	}
	return append(fd.Aliases, name)
}

// Group splits an ordered field list by category, keeping order within each group.
func Group(fields []types.FieldDescriptor) map[types.Category][]types.FieldDescriptor {
	groups := make(map[types.Category][]types.FieldDescriptor)
	for _, f := range fields {
		groups[f.SemanticCategory] = append(groups[f.SemanticCategory], f)
	}
	return groups
}

// MissingRequired returns the required fields whose value is blank on the
// emission. An emission is complete when the result is empty.
func MissingRequired(fields []types.FieldDescriptor, emission *types.Emission) []types.FieldDescriptor {
	var missing []types.FieldDescriptor
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if !hasValue(emission.Bag(f.TargetSection), f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// hasValue looks the field up under its target name and every declared name.
func hasValue(bag types.DataBag, f types.FieldDescriptor) bool {
	names := append([]string{f.TargetField, f.SourceName}, f.Aliases...)
	for _, n := range names {
		if v, ok := bag.Get(n); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
