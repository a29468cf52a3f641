package client

import "strings"

// EntityType classifies a client. It is decided once per row.
type EntityType int

const (
	Unspecified EntityType = iota
	Person
	Organisation
)

func (e EntityType) String() string {
	switch e {
	case Person:
		return "PERSON"
	case Organisation:
		return "ORGANISATION"
	default:
		return "UNSPECIFIED"
	}
}

// Classify maps a raw entityType cell onto a variant. Comparison is
// case-insensitive; anything other than "person" or one of the configured
// organisation spellings is Unspecified.
func (r Rules) Classify(v any) EntityType {
	if IsEmpty(v) {
		return Unspecified
	}
	if strings.EqualFold(strings.TrimSpace(Stringify(v)), "person") {
		return Person
	}
	if r.OrganisationSpellings.Contains(v) {
		return Organisation
	}
	return Unspecified
}
