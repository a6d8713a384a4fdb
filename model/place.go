package model

// GeoPoint is a WGS84 coordinate pair as sent by the front-end geolocation API.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PhotoItem is one photo inside a PlaceRecord that groups several shots
// of the same spot, each with its own caption.
type PhotoItem struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// PlaceRecord is a single photo memory. Records are kept in append order,
// newest last, inside the places document.
type PlaceRecord struct {
	ID         string      `json:"id"`
	Coords     *GeoPoint   `json:"coords"`
	ThumbURL   string      `json:"thumbUrl"`
	OrigURL    string      `json:"origUrl"`
	PlaceTitle string      `json:"placeTitle"`
	Timestamp  string      `json:"timestamp"`
	Filename   string      `json:"filename"`
	ExifDate   string      `json:"exifDate,omitempty"`
	Caption    string      `json:"caption,omitempty"`
	Photos     []PhotoItem `json:"photos,omitempty"`
}

// HasURL reports whether the record still points at a stored object.
// Records without any URL are dropped by the cleanup pass.
func (r *PlaceRecord) HasURL() bool {
	return r.OrigURL != "" || r.ThumbURL != ""
}
