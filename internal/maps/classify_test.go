package maps

import "testing"

func TestClassifyComponentsEmpty(t *testing.T) {
	info := ClassifyComponents(nil)
	if info != (CountyInfo{}) {
		t.Fatalf("expected all fields absent, got %+v", info)
	}
	if info.HasCounty() {
		t.Fatalf("expected no county")
	}
}

func TestClassifyComponentsTravisCounty(t *testing.T) {
	components := []AddressComponent{
		{LongName: "701", ShortName: "701", Types: []string{"street_number"}},
		{LongName: "Travis County", ShortName: "Travis County", Types: []string{"administrative_area_level_2", "political"}},
		{LongName: "Austin", ShortName: "Austin", Types: []string{"locality", "political"}},
		{LongName: "Texas", ShortName: "TX", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "78701", ShortName: "78701", Types: []string{"postal_code"}},
		{LongName: "United States", ShortName: "US", Types: []string{"country", "political"}},
	}

	got := ClassifyComponents(components)
	want := CountyInfo{County: "Travis County", City: "Austin", State: "Texas", StateShort: "TX", Zip: "78701"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestClassifyComponentsLastMatchWins(t *testing.T) {
	components := []AddressComponent{
		{LongName: "Travis County", Types: []string{"administrative_area_level_2"}},
		{LongName: "Williamson County", Types: []string{"administrative_area_level_2"}},
	}

	if got := ClassifyComponents(components).County; got != "Williamson County" {
		t.Fatalf("expected later component to win, got %q", got)
	}
}

func TestClassifyComponentsSingleComponentManyTypes(t *testing.T) {
	components := []AddressComponent{
		{LongName: "Washington", ShortName: "DC", Types: []string{"locality", "administrative_area_level_1"}},
	}

	got := ClassifyComponents(components)
	if got.City != "Washington" || got.State != "Washington" || got.StateShort != "DC" {
		t.Fatalf("expected one component to fill city and state, got %+v", got)
	}
	if got.County != "" || got.Zip != "" {
		t.Fatalf("expected unmatched fields to stay absent, got %+v", got)
	}
}

func TestClassifyComponentsDoesNotMutateInput(t *testing.T) {
	components := []AddressComponent{
		{LongName: "Austin", ShortName: "Austin", Types: []string{"locality"}},
	}
	before := components[0].Types[0]

	_ = ClassifyComponents(components)

	if components[0].Types[0] != before || components[0].LongName != "Austin" {
		t.Fatalf("input was modified: %+v", components)
	}
}
