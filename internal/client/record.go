package client

// ObjectType is the fixed objectType of every record.
const ObjectType = "client"

// Record is the canonical client record. Absent data is encoded by omission:
// every field except ObjectType is left at its zero value, and so dropped from
// JSON, unless the source row had something for it. Fields typed any carry
// the raw cell through unchanged.
type Record struct {
	ObjectType string `json:"objectType"`

	ClientID   any `json:"clientId,omitempty"`
	EntityType any `json:"entityType,omitempty"`
	Status     any `json:"status,omitempty"`

	CompanyName any `json:"companyName,omitempty"`
	Name        any `json:"name,omitempty"`
	Forename    any `json:"forename,omitempty"`
	Middlename  any `json:"middlename,omitempty"`
	Surname     any `json:"surname,omitempty"`

	Titles   []string `json:"titles,omitempty"`
	Suffixes []string `json:"suffixes,omitempty"`

	Gender                string   `json:"gender,omitempty"`
	DateOfBirth           string   `json:"dateOfBirth,omitempty"`
	BirthPlaceCountryCode any      `json:"birthPlaceCountryCode,omitempty"`
	DeceasedOn            string   `json:"deceasedOn,omitempty"`
	Occupation            any      `json:"occupation,omitempty"`
	DomicileCodes         []string `json:"domicileCodes,omitempty"`
	NationalityCodes      []string `json:"nationalityCodes,omitempty"`

	IncorporationCountryCode any    `json:"incorporationCountryCode,omitempty"`
	DateOfIncorporation      string `json:"dateOfIncorporation,omitempty"`

	AssessmentRequired      *bool  `json:"assessmentRequired,omitempty"`
	LastReviewed            *int64 `json:"lastReviewed,omitempty"`
	PeriodicReviewStartDate *int64 `json:"periodicReviewStartDate,omitempty"`
	PeriodicReviewPeriod    string `json:"periodicReviewPeriod,omitempty"`
	Segment                 string `json:"segment,omitempty"`

	Addresses       []Address        `json:"addresses,omitempty"`
	IdentityNumbers []IdentityNumber `json:"identityNumbers,omitempty"`
	Aliases         []Alias          `json:"aliases,omitempty"`

	// Security is non-nil whenever the security flag was affirmative, even
	// if no tag columns were filled.
	Security *Security `json:"security,omitempty"`
}

// Address is a postal address. CountryCode is upper-cased and cut to two
// characters; everything else is passed through.
type Address struct {
	Line1       any    `json:"line1,omitempty"`
	Line2       any    `json:"line2,omitempty"`
	Line3       any    `json:"line3,omitempty"`
	Line4       any    `json:"line4,omitempty"`
	POBox       any    `json:"poBox,omitempty"`
	City        any    `json:"city,omitempty"`
	State       any    `json:"state,omitempty"`
	Province    any    `json:"province,omitempty"`
	Postcode    any    `json:"postcode,omitempty"`
	Country     any    `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// IdentityNumber is one typed identifier such as a passport or DUNS number.
type IdentityNumber struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Alias is an alternative name. Exactly one of Name and CompanyName is set.
type Alias struct {
	Name        any    `json:"name,omitempty"`
	CompanyName any    `json:"companyName,omitempty"`
	NameType    string `json:"nameType"`
}

// Security holds the access tags of a record.
type Security struct {
	OrTags1 any `json:"orTags1,omitempty"`
	OrTags2 any `json:"orTags2,omitempty"`
	OrTags3 any `json:"orTags3,omitempty"`
}
