package client

import "testing"

func TestKeep(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		expected bool
	}{
		{"Entity type only", Row{ColEntityType: "Person"}, true},
		{"Unknown entity type kept", Row{ColEntityType: "Trust"}, true},
		{"Forename only", Row{ColForename: "Jane"}, true},
		{"Surname only", Row{ColSurname: "Doe"}, true},
		{"Company name", Row{ColEntityType: "Organisation", ColName: "Acme"}, true},
		{"Middlename alone dropped", Row{ColMiddlename: "Q"}, false},
		{"Unrelated numeric column", Row{"Row Number": 17.0, ColCity: " "}, false},
		{"Blank", Row{}, false},
		{"Whitespace names", Row{ColName: " ", ColSurname: ""}, false},
	}

	b := NewBuilder(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keep(b.Build(tt.row))
			if got != tt.expected {
				t.Errorf("Keep(%v) = %v; want %v", tt.row, got, tt.expected)
			}
		})
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	b := NewBuilder(DefaultRules())
	records := []Record{
		b.Build(Row{ColForename: "A"}),
		b.Build(Row{}),
		b.Build(Row{ColForename: "B"}),
	}

	got := Filter(records)
	if len(got) != 2 {
		t.Fatalf("len(Filter()) = %d; want 2", len(got))
	}
	if got[0].Forename != "A" || got[1].Forename != "B" {
		t.Errorf("Filter() order = %v, %v; want A, B", got[0].Forename, got[1].Forename)
	}
}
