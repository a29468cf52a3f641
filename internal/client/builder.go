package client

import (
	"fmt"
	"strings"
)

var addressFields = []struct {
	column string
	set    func(*Address, any)
}{
	{ColAddressLine1, func(a *Address, v any) { a.Line1 = v }},
	{ColAddressLine2, func(a *Address, v any) { a.Line2 = v }},
	{ColAddressLine3, func(a *Address, v any) { a.Line3 = v }},
	{ColAddressLine4, func(a *Address, v any) { a.Line4 = v }},
	{ColPOBox, func(a *Address, v any) { a.POBox = v }},
	{ColCity, func(a *Address, v any) { a.City = v }},
	{ColState, func(a *Address, v any) { a.State = v }},
	{ColProvince, func(a *Address, v any) { a.Province = v }},
	{ColPostcode, func(a *Address, v any) { a.Postcode = v }},
	{ColCountry, func(a *Address, v any) { a.Country = v }},
	{ColCountryCode, func(a *Address, v any) { a.CountryCode = countryCode(v) }},
}

// Builder assembles records from normalized rows. It is safe for concurrent
// use; Build reads only its argument.
type Builder struct {
	rules Rules
}

// NewBuilder returns a Builder applying rules.
func NewBuilder(rules Rules) *Builder {
	return &Builder{rules: rules}
}

// Rules returns the rules the builder was created with.
func (b *Builder) Rules() Rules {
	return b.rules
}

// Build turns one normalized row into a record. It never fails: a cell that
// cannot be interpreted leaves its field out.
func (b *Builder) Build(row Row) Record {
	entity := b.rules.Classify(row[ColEntityType])

	rec := Record{
		ObjectType: ObjectType,
		ClientID:   present(row[ColClientID]),
		EntityType: present(row[ColEntityType]),
		Status:     present(row[ColStatus]),
		Titles:     ToStringList(row[ColTitles]),
		Suffixes:   ToStringList(row[ColSuffixes]),
	}

	switch entity {
	case Organisation:
		rec.CompanyName = present(row[ColName])
		rec.IncorporationCountryCode = present(row[ColIncorporationCountryCode])
		rec.DateOfIncorporation = str(row[ColDateOfIncorporation])
	case Person:
		rec.Name, rec.Forename, rec.Middlename, rec.Surname = personNames(row)
		rec.Gender = strings.ToUpper(str(row[ColGender]))
		rec.DateOfBirth = str(row[ColDateOfBirth])
		rec.BirthPlaceCountryCode = present(row[ColBirthPlaceCountryCode])
		rec.DeceasedOn = str(row[ColDeceasedOn])
		rec.Occupation = present(row[ColOccupation])
		rec.DomicileCodes = ToStringList(row[ColDomicileCodes])
		rec.NationalityCodes = ToStringList(row[ColNationalityCodes])
	default:
		rec.Name, rec.Forename, rec.Middlename, rec.Surname = personNames(row)
	}

	if raw := row[ColAssessmentRequired]; !IsEmpty(raw) {
		required := b.rules.AssessmentTokens.Contains(raw)
		rec.AssessmentRequired = &required
		if required {
			rec.LastReviewed = millis(row[ColLastReviewed])
		}
	}
	rec.PeriodicReviewStartDate = millis(row[ColPeriodicReviewStartDate])
	rec.PeriodicReviewPeriod = str(row[ColPeriodicReviewPeriod])
	rec.Segment = str(row[ColSegment])

	if addr, ok := buildAddress(row); ok {
		rec.Addresses = []Address{addr}
	}
	rec.IdentityNumbers = b.identityNumbers(entity, row)
	rec.Aliases = b.aliases(entity, row)
	rec.Security = b.security(row)

	return rec
}

func personNames(row Row) (name, forename, middlename, surname any) {
	return present(row[ColName]), present(row[ColForename]), present(row[ColMiddlename]), present(row[ColSurname])
}

func buildAddress(row Row) (Address, bool) {
	var (
		addr  Address
		found bool
	)
	for _, f := range addressFields {
		v := row[f.column]
		if IsEmpty(v) {
			continue
		}
		f.set(&addr, v)
		found = true
	}
	return addr, found
}

func (b *Builder) identityNumbers(entity EntityType, row Row) []IdentityNumber {
	var out []IdentityNumber
	for _, src := range b.rules.identitySources(entity) {
		for _, col := range src.columns {
			v := row[col]
			if IsEmpty(v) {
				continue
			}
			out = append(out, IdentityNumber{Type: src.kind, Value: ToIdentifierString(v)})
			break
		}
	}
	return out
}

func (b *Builder) aliases(entity EntityType, row Row) []Alias {
	var out []Alias
	for i, col := range b.rules.AliasColumns {
		v := row[col]
		if col == "" || IsEmpty(v) {
			continue
		}
		a := Alias{NameType: fmt.Sprintf("AKA%d", i+1)}
		if entity == Person {
			a.Name = v
		} else {
			a.CompanyName = v
		}
		out = append(out, a)
	}
	return out
}

// security is returned whenever the flag is affirmative, tags or not.
func (b *Builder) security(row Row) *Security {
	if !b.rules.SecurityTokens.Contains(row[ColSecurityEnabled]) {
		return nil
	}
	tags := [3]any{}
	for i, col := range b.rules.TagColumns {
		if v := row[col]; col != "" && !IsEmpty(v) {
			tags[i] = v
		}
	}
	return &Security{OrTags1: tags[0], OrTags2: tags[1], OrTags3: tags[2]}
}

func present(v any) any {
	if IsEmpty(v) {
		return nil
	}
	return v
}

func str(v any) string {
	if IsEmpty(v) {
		return ""
	}
	return Stringify(v)
}

func millis(v any) *int64 {
	ms, ok := ToEpochMillis(v)
	if !ok {
		return nil
	}
	return &ms
}

func countryCode(v any) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(Stringify(v))))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
