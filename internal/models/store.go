package models

// StoreRecord is one entry from the store locator's response. The upstream
// keys are abbreviated; the listing HTML ("de") is where the Uber Eats link
// hides when a store supports online ordering.
type StoreRecord struct {
	ID          string `json:"ID"`
	Name        string `json:"na"`
	ListingURL  string `json:"gu"`
	ListingHTML string `json:"de"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	Distance    string `json:"distance"`
	Street      string `json:"st"`
	PostalCode  string `json:"zp"`
	City        string `json:"ct"`
	Country     string `json:"co"`
	Province    string `json:"rg"`
	Telephone   string `json:"te"`
}

// Coordinates is a geocoder result.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}
