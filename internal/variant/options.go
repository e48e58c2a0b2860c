package variant

import (
	"sort"
	"strings"

	"storefront/internal/domain"
)

// NormalizeName folds an option name to its comparison key.
// Option names are case-insensitive; values are not.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

// Domain is the ordered set of distinct values one option takes
// across a product's variants.
type Domain struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Contains reports whether value is part of the domain
func (d Domain) Contains(value string) bool {
	for _, v := range d.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Domains holds the option domains of a product in first-seen order
type Domains []Domain

// DeriveOptionDomains groups every variant's option values by option name.
// Names and values keep the order in which they were first seen. An empty
// variant list yields an empty Domains, meaning the product has no variant
// dimensions.
func DeriveOptionDomains(variants []domain.Variant) Domains {
	domains := Domains{}
	index := make(map[string]int)

	for _, v := range variants {
		for _, opt := range v.Options {
			key := NormalizeName(opt.Name)
			i, ok := index[key]
			if !ok {
				i = len(domains)
				index[key] = i
				domains = append(domains, Domain{Name: key, Label: opt.Name})
			}
			if !domains[i].Contains(opt.Value) {
				domains[i].Values = append(domains[i].Values, opt.Value)
			}
		}
	}

	return domains
}

// Lookup finds the domain for an option name, case-insensitively
func (ds Domains) Lookup(name string) (Domain, bool) {
	key := NormalizeName(name)
	for _, d := range ds {
		if d.Name == key {
			return d, true
		}
	}
	return Domain{}, false
}

// Names returns the normalised option names in domain order
func (ds Domains) Names() []string {
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Name)
	}
	return names
}

// Empty reports whether the product has no variant dimensions
func (ds Domains) Empty() bool {
	return len(ds) == 0
}

// Defaults builds the initial selection: the first value of every domain
func (ds Domains) Defaults() Selection {
	sel := make(Selection, len(ds))
	for _, d := range ds {
		if len(d.Values) > 0 {
			sel[d.Name] = d.Values[0]
		}
	}
	return sel
}

// Selection maps normalised option names to the chosen value
type Selection map[string]string

// NewSelection builds a Selection from arbitrary-cased names. When two
// names fold to the same key the lexically greater spelling wins, so the
// result does not depend on map iteration order.
func NewSelection(values map[string]string) Selection {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	sel := make(Selection, len(values))
	for _, name := range names {
		sel[NormalizeName(name)] = values[name]
	}
	return sel
}

// With returns a copy of the selection with exactly one option overwritten
func (s Selection) With(name, value string) Selection {
	next := s.Clone()
	next[NormalizeName(name)] = value
	return next
}

// Get returns the chosen value for an option name
func (s Selection) Get(name string) (string, bool) {
	v, ok := s[NormalizeName(name)]
	return v, ok
}

// Clone returns an independent copy
func (s Selection) Clone() Selection {
	next := make(Selection, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	return next
}
