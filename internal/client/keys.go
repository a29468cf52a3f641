package client

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey strips surrounding whitespace, double quotes and byte order
// marks from a column name and puts it in NFC form. Non-string keys are
// stringified first.
func NormalizeKey(k any) string {
	s := Stringify(k)
	s = strings.TrimFunc(s, func(r rune) bool {
		return r == '"' || r == '\uFEFF' || unicode.IsSpace(r)
	})
	return norm.NFC.String(s)
}

// NormalizeKeys returns a copy of raw with every key normalized. Values are
// not touched. When two raw keys collapse to the same name the first
// non-empty value in sorted raw-key order wins.
func NormalizeKeys[K comparable](raw map[K]any) Row {
	type entry struct {
		raw string
		key K
	}
	entries := make([]entry, 0, len(raw))
	for k := range raw {
		entries = append(entries, entry{raw: Stringify(k), key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].raw < entries[j].raw })

	out := make(Row, len(raw))
	for _, e := range entries {
		nk := NormalizeKey(e.key)
		v := raw[e.key]
		if prev, ok := out[nk]; ok && !IsEmpty(prev) {
			continue
		}
		out[nk] = v
	}
	return out
}
