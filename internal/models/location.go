package models

// Location is a plain coordinate pair. Latitude must be within [-90, 90]
// and longitude within [-180, 180]; validation happens at the request
// boundary, not here.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}
