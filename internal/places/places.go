// Package places decomposes a place-lookup result into the flat address
// fields used by the checkout form. It is a pure transform: no lookups, no
// side effects.
package places

// AddressComponent is one element of a place result's component list, as
// returned by the place-lookup provider.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// PlaceResult is the subset of the provider's place object the adapter
// consumes.
type PlaceResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Address is the flat record produced by the adapter. Every field defaults
// to the empty string so the form always has controlled values.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}

// ResolveAddress walks the component list and maps each component to one
// target field. The first matching type wins per component; when several
// components map to the same target, the last write wins. Unmapped types
// are ignored.
func ResolveAddress(place PlaceResult) Address {
	var addr Address
	for _, comp := range place.AddressComponents {
		for _, typ := range comp.Types {
			switch typ {
			case "street_number":
				addr.Number = comp.LongName
			case "route":
				addr.Street = comp.LongName
			case "neighborhood", "sublocality_level_1":
				addr.Neighborhood = comp.LongName
			case "locality":
				addr.City = comp.LongName
			case "administrative_area_level_1":
				addr.State = comp.ShortName
			case "postal_code":
				addr.ZipCode = comp.LongName
			case "country":
				addr.Country = comp.ShortName
			default:
				continue
			}
			break
		}
	}
	return addr
}
