package models

// Establishment is one inspected food business as published in the FHRS
// open-data files. Field names follow the upstream JSON.
//
// RatingValue and RatingDate are kept as the raw upstream text; use
// ClassifyRating and ParseRatingDate before doing arithmetic on them.
type Establishment struct {
	FHRSID             int64  `json:"FHRSID"`
	BusinessName       string `json:"BusinessName"`
	BusinessType       string `json:"BusinessType"`
	AddressLine1       string `json:"AddressLine1"`
	AddressLine2       string `json:"AddressLine2"`
	PostCode           string `json:"PostCode"`
	RatingValue        string `json:"RatingValue"`
	RatingDate         string `json:"RatingDate"`
	LocalAuthorityName string `json:"LocalAuthorityName"`
}

// Dataset is the envelope of an FHRS open-data JSON file.
type Dataset struct {
	FHRSEstablishment struct {
		EstablishmentCollection []Establishment `json:"EstablishmentCollection"`
	} `json:"FHRSEstablishment"`
}

// Establishments returns the collection, never nil.
func (d *Dataset) Establishments() []Establishment {
	if d == nil || d.FHRSEstablishment.EstablishmentCollection == nil {
		return []Establishment{}
	}
	return d.FHRSEstablishment.EstablishmentCollection
}
