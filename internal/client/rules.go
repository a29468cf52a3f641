package client

// Source column names. Lookups are exact after key normalization.
const (
	ColClientID   = "clientId"
	ColEntityType = "entityType"
	ColStatus     = "status"

	ColName       = "name"
	ColForename   = "forename"
	ColMiddlename = "middlename"
	ColSurname    = "surname"
	ColTitles     = "titles"
	ColSuffixes   = "suffixes"

	ColGender                = "gender"
	ColDateOfBirth           = "dateOfBirth"
	ColBirthPlaceCountryCode = "birthPlaceCountryCode"
	ColDeceasedOn            = "deceasedOn"
	ColOccupation            = "occupation"
	ColDomicileCodes         = "domicileCodes"
	ColNationalityCodes      = "nationalityCodes"

	ColIncorporationCountryCode = "incorporationCountryCode"
	ColDateOfIncorporation      = "dateOfIncorporation"

	ColAssessmentRequired      = "assessmentRequired"
	ColLastReviewed            = "lastReviewed"
	ColPeriodicReviewStartDate = "periodicReviewStartDate"
	ColPeriodicReviewPeriod    = "periodicReviewPeriod"
	ColSegment                 = "segment"

	ColAddressLine1 = "Address line1"
	ColAddressLine2 = "Address line2"
	ColAddressLine3 = "Address line3"
	ColAddressLine4 = "Address line4"
	ColPOBox        = "poBox"
	ColCity         = "city"
	ColState        = "state"
	ColProvince     = "province"
	ColPostcode     = "postcode"
	ColCountry      = "country"
	ColCountryCode  = "countryCode"

	ColDunsNumber     = "Duns Number"
	ColNationalTaxNo  = "National Tax No."
	ColLEI            = "Legal Entity Identifier (LEI)"
	ColNationalID     = "National ID"
	ColDrivingLicence = "Driving Licence No."
	ColPassportNo     = "Passport No."

	ColSecurityEnabled = "Security Enabled"
)

// Default spellings and tokens.
var (
	DefaultOrganisationSpellings = []string{"ORGANISATION", "ORGANIZATION"}
	DefaultAffirmativeTokens     = []string{"true", "1", "1.0", "t", "yes", "y"}
	DefaultSocialSecurityColumns = []string{"Social Security No.", "National Security No."}
	DefaultAliasColumns          = [4]string{"Alias 1", "Alias 2", "Alias 3", "Alias 4"}
	DefaultTagColumns            = [3]string{"Tag 1", "Tag 2", "Tag 3"}
)

// Rules holds the choices that differ between the spreadsheet layouts seen in
// the wild. The zero value is not usable; start from DefaultRules.
type Rules struct {
	// OrganisationSpellings are entityType values treated as Organisation.
	OrganisationSpellings TokenSet
	// AssessmentTokens are affirmative spellings for assessmentRequired.
	AssessmentTokens TokenSet
	// SecurityTokens are affirmative spellings for Security Enabled.
	SecurityTokens TokenSet
	// SocialSecurityColumns are tried in order; the first non-empty one
	// becomes the ssn identity number.
	SocialSecurityColumns []string
	AliasColumns          [4]string
	TagColumns            [3]string
}

// DefaultRules accepts both organisation spellings, uses one affirmative
// token set for every flag, and reads either social security column name.
func DefaultRules() Rules {
	return Rules{
		OrganisationSpellings: NewTokenSet(DefaultOrganisationSpellings...),
		AssessmentTokens:      NewTokenSet(DefaultAffirmativeTokens...),
		SecurityTokens:        NewTokenSet(DefaultAffirmativeTokens...),
		SocialSecurityColumns: append([]string(nil), DefaultSocialSecurityColumns...),
		AliasColumns:          DefaultAliasColumns,
		TagColumns:            DefaultTagColumns,
	}
}

type identitySource struct {
	columns []string
	kind    string
}

func (r Rules) identitySources(e EntityType) []identitySource {
	switch e {
	case Organisation:
		return []identitySource{
			{[]string{ColDunsNumber}, "duns"},
			{[]string{ColNationalTaxNo}, "tax_no"},
			{[]string{ColLEI}, "lei"},
		}
	case Person:
		return []identitySource{
			{[]string{ColNationalID}, "national_id"},
			{[]string{ColDrivingLicence}, "driving_licence"},
			{r.SocialSecurityColumns, "ssn"},
			{[]string{ColPassportNo}, "passport_no"},
		}
	}
	return nil
}

// KnownColumns lists every source column the builder reads under r.
func (r Rules) KnownColumns() []string {
	cols := []string{
		ColClientID, ColEntityType, ColStatus,
		ColName, ColForename, ColMiddlename, ColSurname, ColTitles, ColSuffixes,
		ColGender, ColDateOfBirth, ColBirthPlaceCountryCode, ColDeceasedOn,
		ColOccupation, ColDomicileCodes, ColNationalityCodes,
		ColIncorporationCountryCode, ColDateOfIncorporation,
		ColAssessmentRequired, ColLastReviewed, ColPeriodicReviewStartDate,
		ColPeriodicReviewPeriod, ColSegment,
	}
	for _, f := range addressFields {
		cols = append(cols, f.column)
	}
	for _, e := range []EntityType{Organisation, Person} {
		for _, src := range r.identitySources(e) {
			cols = append(cols, src.columns...)
		}
	}
	cols = append(cols, r.AliasColumns[:]...)
	cols = append(cols, ColSecurityEnabled)
	cols = append(cols, r.TagColumns[:]...)
	return cols
}
