package maps

import "slices"

// Address component types that map onto CountyInfo fields.
const (
	TypeCounty     = "administrative_area_level_2"
	TypeLocality   = "locality"
	TypeState      = "administrative_area_level_1"
	TypePostalCode = "postal_code"
)

// HasType reports whether the component carries the given type tag.
func (a AddressComponent) HasType(t string) bool {
	return slices.Contains(a.Types, t)
}

// HasCounty reports whether a county was found.
func (i CountyInfo) HasCounty() bool {
	return i.County != ""
}

// ClassifyComponents folds a geocoding result's components into a
// CountyInfo. The provider gives no ordering guarantee, so when several
// components carry the same type the last one wins.
func ClassifyComponents(components []AddressComponent) CountyInfo {
	var info CountyInfo

	for _, component := range components {
		if component.HasType(TypeCounty) {
			info.County = component.LongName
		}
		if component.HasType(TypeLocality) {
			info.City = component.LongName
		}
		if component.HasType(TypeState) {
			info.State = component.LongName
			info.StateShort = component.ShortName
		}
		if component.HasType(TypePostalCode) {
			info.Zip = component.LongName
		}
	}

	return info
}
