package variant

import (
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

// optionSet folds a variant's options into a name->value map. ok is false
// when the same name appears twice with different values; such a variant
// can never equal a selection.
func optionSet(v domain.Variant) (map[string]string, bool) {
	set := make(map[string]string, len(v.Options))
	for _, opt := range v.Options {
		key := NormalizeName(opt.Name)
		if prev, seen := set[key]; seen && prev != opt.Value {
			return nil, false
		}
		set[key] = opt.Value
	}
	return set, true
}

// Matches reports whether the variant's full set of (name, value) pairs
// equals the selection. Selection names are compared case-insensitively.
func Matches(v domain.Variant, sel Selection) bool {
	set, ok := optionSet(v)
	if !ok {
		return false
	}
	return matchesSet(set, NewSelection(sel))
}

func matchesSet(set map[string]string, sel Selection) bool {
	if len(set) != len(sel) {
		return false
	}
	for name, value := range sel {
		if got, found := set[name]; !found || got != value {
			return false
		}
	}
	return true
}

// Resolve returns the first variant, in list order, whose options equal
// the selection. It is a pure function of its inputs.
func Resolve(variants []domain.Variant, sel Selection) (*domain.Variant, bool) {
	folded := NewSelection(sel)
	for i := range variants {
		set, ok := optionSet(variants[i])
		if ok && matchesSet(set, folded) {
			return &variants[i], true
		}
	}
	return nil, false
}

// Index resolves selections in constant time. It keeps the first variant
// for each option tuple, so it agrees with Resolve on duplicate tuples.
type Index struct {
	variants []domain.Variant
	byKey    map[string]int
}

// NewIndex builds an index over variants
func NewIndex(variants []domain.Variant) *Index {
	ix := &Index{
		variants: variants,
		byKey:    make(map[string]int, len(variants)),
	}
	for i := range variants {
		set, ok := optionSet(variants[i])
		if !ok {
			continue
		}
		key := canonicalKey(set)
		if _, exists := ix.byKey[key]; !exists {
			ix.byKey[key] = i
		}
	}
	return ix
}

// Resolve looks up the variant matching the selection
func (ix *Index) Resolve(sel Selection) (*domain.Variant, bool) {
	i, ok := ix.byKey[canonicalKey(NewSelection(sel))]
	if !ok {
		return nil, false
	}
	return &ix.variants[i], true
}

// canonicalKey renders a name->value set as a sorted, quoted tuple
func canonicalKey(set map[string]string) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(set[name]))
		b.WriteByte(';')
	}
	return b.String()
}
