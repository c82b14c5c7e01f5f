package maps

// Provider envelope statuses the proxy and client act on. Anything else is
// relayed as an upstream error.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// GeocodeRequest represents the query parameters of GET /api/geocode.
type GeocodeRequest struct {
	Lat string `form:"lat" binding:"required" validate:"latitude"`
	Lng string `form:"lng" binding:"required" validate:"longitude"`
}

// PlaceDetailsRequest represents the query parameters of GET /api/place-details.
type PlaceDetailsRequest struct {
	PlaceID string `form:"place_id" binding:"required"`
}

// AutocompleteRequest represents the query parameters of GET /api/autocomplete.
type AutocompleteRequest struct {
	Input string `form:"input" binding:"required"`
}

// AddressComponent is one structured piece of a geocoding result.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// CountyInfo is the normalized record derived from address components.
// An empty field means no component carried the corresponding type.
type CountyInfo struct {
	County     string `json:"county,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	StateShort string `json:"stateShort,omitempty"`
	Zip        string `json:"zip,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Prediction is a single autocomplete suggestion.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// Envelope is the part every provider response shares.
type Envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GeocodeResult mirrors the relevant parts of one reverse-geocoding result.
type GeocodeResult struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
}

// GeocodeResponse is the reverse-geocoding envelope.
type GeocodeResponse struct {
	Envelope
	Results []GeocodeResult `json:"results"`
}

// Geometry holds the location of a place. Location is a pointer so a
// response without geometry can be told apart from one at 0,0.
type Geometry struct {
	Location *LatLng `json:"location"`
}

// PlaceDetails is the subset of a place requested with fields=geometry.
type PlaceDetails struct {
	Geometry *Geometry `json:"geometry"`
}

// PlaceDetailsResponse is the place details envelope.
type PlaceDetailsResponse struct {
	Envelope
	Result *PlaceDetails `json:"result"`
}

// AutocompleteResponse is the place autocomplete envelope.
type AutocompleteResponse struct {
	Envelope
	Predictions []Prediction `json:"predictions"`
}
