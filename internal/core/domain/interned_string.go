package domain

import (
	"strings"
	"unique"
)

// InternedString is a canonical handle for a file path that appears in many
// commands. Equal paths compare equal in constant time, which keeps the
// producer and consumer maps of a Graph cheap to probe.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// NewInternedStrings interns every element of s, keeping order and duplicates.
func NewInternedStrings(s []string) []InternedString {
	res := make([]InternedString, len(s))
	for i, v := range s {
		res[i] = NewInternedString(v)
	}
	return res
}

func (is InternedString) String() string {
	return is.h.Value()
}

// Compare orders handles by their path, for use with slices.SortFunc.
func (is InternedString) Compare(other InternedString) int {
	if is == other {
		return 0
	}
	return strings.Compare(is.String(), other.String())
}

// Strings converts handles back into plain paths.
func Strings(in []InternedString) []string {
	res := make([]string, len(in))
	for i, v := range in {
		res[i] = v.String()
	}
	return res
}
