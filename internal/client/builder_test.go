package client

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func build(row Row) Record {
	return NewBuilder(DefaultRules()).Build(row)
}

func marshal(t *testing.T, r Record) string {
	t.Helper()
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return string(b)
}

func keys(t *testing.T, r Record) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(marshal(t, r)), &m); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	return m
}

func TestBuild_EmptyRowHasOnlyObjectType(t *testing.T) {
	got := marshal(t, build(Row{}))
	want := `{"objectType":"client"}`
	if got != want {
		t.Errorf("Build({}) = %s; want %s", got, want)
	}
}

func TestBuild_Organisation(t *testing.T) {
	rec := build(Row{
		ColEntityType:               "Organisation",
		ColName:                     "Acme Co",
		ColForename:                 "ignored",
		ColGender:                   "m",
		ColIncorporationCountryCode: "GB",
		ColDateOfIncorporation:      time.Date(1999, 4, 1, 0, 0, 0, 0, time.UTC),
	})

	m := keys(t, rec)
	if m["companyName"] != "Acme Co" {
		t.Errorf("companyName = %v; want Acme Co", m["companyName"])
	}
	for _, k := range []string{"name", "forename", "gender"} {
		if _, ok := m[k]; ok {
			t.Errorf("organisation record has %q", k)
		}
	}
	if m["incorporationCountryCode"] != "GB" {
		t.Errorf("incorporationCountryCode = %v; want GB", m["incorporationCountryCode"])
	}
	if m["dateOfIncorporation"] != "1999-04-01" {
		t.Errorf("dateOfIncorporation = %v; want 1999-04-01", m["dateOfIncorporation"])
	}
}

func TestBuild_OrganizationSpelling(t *testing.T) {
	rec := build(Row{ColEntityType: "ORGANIZATION", ColName: "Acme Inc"})
	if rec.CompanyName != "Acme Inc" || rec.Name != nil {
		t.Errorf("CompanyName = %v, Name = %v; want Acme Inc, nil", rec.CompanyName, rec.Name)
	}
}

func TestBuild_Person(t *testing.T) {
	rec := build(Row{
		ColEntityType:               "Person",
		ColForename:                 "Jane",
		ColSurname:                  "Doe",
		ColGender:                   "f",
		ColDateOfBirth:              time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
		ColDomicileCodes:            "GB, IE",
		ColNationalityCodes:         "GB",
		ColBirthPlaceCountryCode:    "IE",
		ColOccupation:               "Engineer",
		ColIncorporationCountryCode: "GB",
	})

	m := keys(t, rec)
	if m["forename"] != "Jane" || m["surname"] != "Doe" {
		t.Errorf("forename, surname = %v, %v; want Jane, Doe", m["forename"], m["surname"])
	}
	if _, ok := m["companyName"]; ok {
		t.Error("person record has companyName")
	}
	if _, ok := m["incorporationCountryCode"]; ok {
		t.Error("person record has incorporationCountryCode")
	}
	if rec.Gender != "F" {
		t.Errorf("Gender = %q; want F", rec.Gender)
	}
	if rec.DateOfBirth != "1980-05-17" {
		t.Errorf("DateOfBirth = %q; want 1980-05-17", rec.DateOfBirth)
	}
	if !reflect.DeepEqual(rec.DomicileCodes, []string{"GB", "IE"}) {
		t.Errorf("DomicileCodes = %v; want [GB IE]", rec.DomicileCodes)
	}
	if rec.Occupation != "Engineer" {
		t.Errorf("Occupation = %v; want Engineer", rec.Occupation)
	}
}

func TestBuild_UnspecifiedUsesPersonNames(t *testing.T) {
	rec := build(Row{ColName: "J Doe", ColGender: "m", "Alias 1": "Jay"})
	if rec.Name != "J Doe" {
		t.Errorf("Name = %v; want J Doe", rec.Name)
	}
	if rec.Gender != "" {
		t.Errorf("Gender = %q; want empty for unspecified entity", rec.Gender)
	}
	if len(rec.Aliases) != 1 || rec.Aliases[0].CompanyName != "Jay" || rec.Aliases[0].Name != nil {
		t.Errorf("Aliases = %+v; want one companyName alias", rec.Aliases)
	}
}

func TestBuild_VerbatimCopies(t *testing.T) {
	rec := build(Row{ColClientID: 1001.0, ColStatus: "Active", ColEntityType: " "})
	if rec.ClientID != 1001.0 {
		t.Errorf("ClientID = %#v; want 1001.0", rec.ClientID)
	}
	if rec.Status != "Active" {
		t.Errorf("Status = %#v; want Active", rec.Status)
	}
	if rec.EntityType != nil {
		t.Errorf("EntityType = %#v; want nil", rec.EntityType)
	}
	if got := marshal(t, rec); got != `{"objectType":"client","clientId":1001,"status":"Active"}` {
		t.Errorf("json = %s", got)
	}
}

func TestBuild_Titles(t *testing.T) {
	rec := build(Row{ColEntityType: "Organisation", ColTitles: "Dr, Prof", ColSuffixes: " "})
	if !reflect.DeepEqual(rec.Titles, []string{"Dr", "Prof"}) {
		t.Errorf("Titles = %v; want [Dr Prof]", rec.Titles)
	}
	if rec.Suffixes != nil {
		t.Errorf("Suffixes = %v; want nil", rec.Suffixes)
	}
}

func TestBuild_Assessment(t *testing.T) {
	reviewed := "2023-01-15"
	reviewedMS := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name         string
		row          Row
		wantRequired *bool
		wantReviewed *int64
	}{
		{
			name:         "Required yes",
			row:          Row{ColAssessmentRequired: "yes", ColLastReviewed: reviewed},
			wantRequired: ptr(true),
			wantReviewed: ptr(reviewedMS),
		},
		{
			name:         "Required no keeps false",
			row:          Row{ColAssessmentRequired: "no", ColLastReviewed: reviewed},
			wantRequired: ptr(false),
		},
		{
			name:         "Numeric zero is present",
			row:          Row{ColAssessmentRequired: 0.0},
			wantRequired: ptr(false),
		},
		{
			name: "Absent",
			row:  Row{ColLastReviewed: reviewed},
		},
		{
			name:         "Out of range review date",
			row:          Row{ColAssessmentRequired: "yes", ColLastReviewed: 1e300},
			wantRequired: ptr(true),
		},
		{
			name:         "Unparseable review date",
			row:          Row{ColAssessmentRequired: "1.0", ColLastReviewed: "soon"},
			wantRequired: ptr(true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := build(tt.row)
			if !reflect.DeepEqual(rec.AssessmentRequired, tt.wantRequired) {
				t.Errorf("AssessmentRequired = %v; want %v", deref(rec.AssessmentRequired), deref(tt.wantRequired))
			}
			if !reflect.DeepEqual(rec.LastReviewed, tt.wantReviewed) {
				t.Errorf("LastReviewed = %v; want %v", deref(rec.LastReviewed), deref(tt.wantReviewed))
			}
		})
	}
}

func TestBuild_AssessmentJSON(t *testing.T) {
	m := keys(t, build(Row{ColAssessmentRequired: "no"}))
	if m["assessmentRequired"] != false {
		t.Errorf("assessmentRequired = %v; want false", m["assessmentRequired"])
	}
	if _, ok := m["lastReviewed"]; ok {
		t.Error("lastReviewed present when assessment not required")
	}
}

func TestBuild_ReviewFields(t *testing.T) {
	rec := build(Row{
		ColPeriodicReviewStartDate: 1700000000.0,
		ColPeriodicReviewPeriod:    12.0,
		ColSegment:                 "Retail",
	})
	if rec.PeriodicReviewStartDate == nil || *rec.PeriodicReviewStartDate != 1700000000000 {
		t.Errorf("PeriodicReviewStartDate = %v; want 1700000000000", deref(rec.PeriodicReviewStartDate))
	}
	if rec.PeriodicReviewPeriod != "12" {
		t.Errorf("PeriodicReviewPeriod = %q; want 12", rec.PeriodicReviewPeriod)
	}
	if rec.Segment != "Retail" {
		t.Errorf("Segment = %q; want Retail", rec.Segment)
	}
}

func TestBuild_CompactNumericStartDate(t *testing.T) {
	rec := build(Row{ColPeriodicReviewStartDate: 20230115.0})
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	if rec.PeriodicReviewStartDate == nil || *rec.PeriodicReviewStartDate != want {
		t.Errorf("PeriodicReviewStartDate = %v; want %d", deref(rec.PeriodicReviewStartDate), want)
	}
}

func TestBuild_Address(t *testing.T) {
	rec := build(Row{
		ColAddressLine1: "1 High St",
		ColAddressLine4: "Annex",
		ColCity:         "London",
		ColPostcode:     "E1 6AN",
		ColCountryCode:  " gbr",
	})
	want := []Address{{
		Line1:       "1 High St",
		Line4:       "Annex",
		City:        "London",
		Postcode:    "E1 6AN",
		CountryCode: "GB",
	}}
	if !reflect.DeepEqual(rec.Addresses, want) {
		t.Errorf("Addresses = %+v; want %+v", rec.Addresses, want)
	}
}

func TestBuild_AddressSuppressed(t *testing.T) {
	rec := build(Row{ColEntityType: "Person", ColAddressLine1: "  ", ColCity: "", ColCountryCode: nil})
	if rec.Addresses != nil {
		t.Errorf("Addresses = %+v; want nil", rec.Addresses)
	}
	if _, ok := keys(t, rec)["addresses"]; ok {
		t.Error("addresses key present for empty address columns")
	}
}

func TestBuild_IdentityNumbers(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		expected []IdentityNumber
	}{
		{
			name: "Organisation",
			row: Row{
				ColEntityType:    "Organisation",
				ColDunsNumber:    123456789.0,
				ColNationalTaxNo: "GB-99",
				ColLEI:           "5493001KJTIIGC8Y1R12",
				ColPassportNo:    "ignored",
			},
			expected: []IdentityNumber{
				{Type: "duns", Value: "123456789"},
				{Type: "tax_no", Value: "GB-99"},
				{Type: "lei", Value: "5493001KJTIIGC8Y1R12"},
			},
		},
		{
			name: "Person",
			row: Row{
				ColEntityType:         "person",
				ColNationalID:         "AB123",
				ColDrivingLicence:     "DL-1",
				"Social Security No.": 123.0,
				ColPassportNo:         "P99",
				ColDunsNumber:         "ignored",
			},
			expected: []IdentityNumber{
				{Type: "national_id", Value: "AB123"},
				{Type: "driving_licence", Value: "DL-1"},
				{Type: "ssn", Value: "123"},
				{Type: "passport_no", Value: "P99"},
			},
		},
		{
			name:     "Person with alternate ssn column",
			row:      Row{ColEntityType: "Person", "National Security No.": "NS-1"},
			expected: []IdentityNumber{{Type: "ssn", Value: "NS-1"}},
		},
		{
			name:     "Unspecified has none",
			row:      Row{ColNationalID: "AB123", ColDunsNumber: "1"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := build(tt.row).IdentityNumbers
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("IdentityNumbers = %+v; want %+v", got, tt.expected)
			}
		})
	}
}

func TestBuild_Aliases(t *testing.T) {
	rec := build(Row{
		ColEntityType: "Person",
		"Alias 1":     "Janie",
		"Alias 3":     "JD",
	})
	want := []Alias{
		{Name: "Janie", NameType: "AKA1"},
		{Name: "JD", NameType: "AKA3"},
	}
	if !reflect.DeepEqual(rec.Aliases, want) {
		t.Errorf("Aliases = %+v; want %+v", rec.Aliases, want)
	}

	org := build(Row{ColEntityType: "Organisation", "Alias 2": "Acme Ltd"})
	if got := marshal(t, org); got != `{"objectType":"client","entityType":"Organisation","aliases":[{"companyName":"Acme Ltd","nameType":"AKA2"}]}` {
		t.Errorf("json = %s", got)
	}
}

func TestBuild_Security(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		expected *Security
	}{
		{
			name:     "Enabled with tags",
			row:      Row{ColSecurityEnabled: "Y", "Tag 1": "eu", "Tag 3": 7.0},
			expected: &Security{OrTags1: "eu", OrTags3: 7.0},
		},
		{
			name:     "Enabled without tags",
			row:      Row{ColSecurityEnabled: true},
			expected: &Security{},
		},
		{
			name: "Disabled",
			row:  Row{ColSecurityEnabled: "no", "Tag 1": "eu"},
		},
		{
			name: "Absent",
			row:  Row{"Tag 1": "eu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := build(tt.row).Security
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Security = %+v; want %+v", got, tt.expected)
			}
		})
	}

	if got := marshal(t, build(Row{ColSecurityEnabled: "t"})); got != `{"objectType":"client","security":{}}` {
		t.Errorf("json = %s", got)
	}
}

func TestBuild_SecurityNarrowTokens(t *testing.T) {
	rules := DefaultRules()
	rules.SecurityTokens = NewTokenSet("true", "t", "1", "yes", "y")
	rec := NewBuilder(rules).Build(Row{ColSecurityEnabled: "1.0"})
	if rec.Security != nil {
		t.Errorf("Security = %+v; want nil with narrow token set", rec.Security)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	row := Row{ColEntityType: "Person", ColForename: "Jane", ColTitles: "Dr", ColCity: "Leeds"}
	a, b := marshal(t, build(row)), marshal(t, build(row))
	if a != b {
		t.Errorf("Build not deterministic: %s vs %s", a, b)
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
