package places

import "testing"

func TestResolveAddress(t *testing.T) {
	place := PlaceResult{
		AddressComponents: []AddressComponent{
			{LongName: "123", Types: []string{"street_number"}},
			{LongName: "Main St", Types: []string{"route"}},
			{LongName: "Springfield", Types: []string{"locality", "political"}},
			{LongName: "99999-000", Types: []string{"postal_code"}},
		},
	}

	addr := ResolveAddress(place)
	if addr.Number != "123" {
		t.Errorf("number = %q", addr.Number)
	}
	if addr.Street != "Main St" {
		t.Errorf("street = %q", addr.Street)
	}
	if addr.City != "Springfield" {
		t.Errorf("city = %q", addr.City)
	}
	if addr.ZipCode != "99999-000" {
		t.Errorf("zipCode = %q", addr.ZipCode)
	}
	if addr.Complement != "" {
		t.Errorf("complement should default to empty, got %q", addr.Complement)
	}
}

func TestResolveAddressStateUsesShortName(t *testing.T) {
	place := PlaceResult{
		AddressComponents: []AddressComponent{
			{LongName: "São Paulo", ShortName: "SP", Types: []string{"administrative_area_level_1", "political"}},
			{LongName: "Brazil", ShortName: "BR", Types: []string{"country", "political"}},
		},
	}

	addr := ResolveAddress(place)
	if addr.State != "SP" {
		t.Errorf("state should use the abbreviated form, got %q", addr.State)
	}
	if addr.Country != "BR" {
		t.Errorf("country = %q", addr.Country)
	}
}

func TestResolveAddressLastWriteWins(t *testing.T) {
	place := PlaceResult{
		AddressComponents: []AddressComponent{
			{LongName: "Centro", Types: []string{"neighborhood"}},
			{LongName: "Jardins", Types: []string{"sublocality_level_1"}},
		},
	}

	if addr := ResolveAddress(place); addr.Neighborhood != "Jardins" {
		t.Errorf("neighborhood = %q, want last write", addr.Neighborhood)
	}
}

func TestResolveAddressFirstMatchingTypeWinsPerComponent(t *testing.T) {
	// a component tagged both street_number and route maps only to number
	place := PlaceResult{
		AddressComponents: []AddressComponent{
			{LongName: "42", Types: []string{"street_number", "route"}},
		},
	}

	addr := ResolveAddress(place)
	if addr.Number != "42" || addr.Street != "" {
		t.Errorf("got number=%q street=%q", addr.Number, addr.Street)
	}
}
