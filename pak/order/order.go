// Package order provides the two filename orderings archives are kept in,
// a sort audit, and binary-search insertion positions.
package order

import (
	"slices"
	"sort"
	"strings"
	"unicode"
)

// Order selects a total ordering over filenames.
type Order int

const (
	// Ordinal compares names case-insensitively, rune by rune.
	Ordinal Order = iota
	// Class ranks digits before underscore before letters before anything
	// else, comparing case-insensitively within a class.
	Class
)

func (o Order) String() string {
	switch o {
	case Ordinal:
		return "ordinal"
	case Class:
		return "class"
	default:
		return "unknown"
	}
}

// Parse maps "ordinal" or "class" to an Order.
func Parse(s string) (Order, bool) {
	switch strings.ToLower(s) {
	case "ordinal", "":
		return Ordinal, true
	case "class":
		return Class, true
	}
	return 0, false
}

// Compare returns -1, 0 or +1 for a relative to b under o.
func Compare(o Order, a, b string) int {
	if o == Class {
		return compareClass(a, b)
	}
	return compareOrdinal(a, b)
}

func compareOrdinal(a, b string) int {
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

func rank(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return 0
	case r == '_':
		return 1
	case unicode.IsLetter(r):
		return 2
	default:
		return 3
	}
}

func compareClass(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		x, y := ra[i], rb[i]
		if kx, ky := rank(x), rank(y); kx != ky {
			if kx < ky {
				return -1
			}
			return 1
		}
		x, y = unicode.ToUpper(x), unicode.ToUpper(y)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}
	return 0
}

// Sorted reports whether names is non-decreasing under o.
func Sorted(names []string, o Order) bool {
	for i := 1; i < len(names); i++ {
		if Compare(o, names[i-1], names[i]) > 0 {
			return false
		}
	}
	return true
}

// Violation is a position whose name differs from the fully sorted order.
type Violation struct {
	Position int
	Actual   string
	Expected string
}

// Audit stable-sorts a copy of names and reports every position where the
// original disagrees with it.
func Audit(names []string, o Order) []Violation {
	want := slices.Clone(names)
	slices.SortStableFunc(want, func(a, b string) int { return Compare(o, a, b) })

	var out []Violation
	for i := range names {
		if names[i] != want[i] {
			out = append(out, Violation{Position: i, Actual: names[i], Expected: want[i]})
		}
	}
	return out
}

// InsertIndex returns the position at which name keeps sorted names sorted:
// after every element that compares less than or equal to it.
func InsertIndex(names []string, name string, o Order) int {
	return sort.Search(len(names), func(i int) bool {
		return Compare(o, names[i], name) > 0
	})
}
