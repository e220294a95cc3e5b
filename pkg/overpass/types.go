package overpass

// RawRecord is one element returned by the remote tag database. Nodes carry
// direct coordinates; ways and relations carry a representative center when
// the query requests `out center`.
type RawRecord struct {
	Type string `json:"type"` // node, way, relation
	ID   int64  `json:"id"`
	// Pointers distinguish absent coordinates from a legitimate zero
	// (equator and prime meridian are real places).
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the representative coordinate of a non-point geometry.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates resolves the record's position: direct coordinates if present,
// else the center. Returns false if neither is usable.
func (r *RawRecord) Coordinates() (lat, lon float64, ok bool) {
	if r.Lat != nil && r.Lon != nil {
		return *r.Lat, *r.Lon, true
	}
	if r.Center != nil {
		return r.Center.Lat, r.Center.Lon, true
	}
	return 0, 0, false
}

// Name returns the record's display name, or "" if it has none.
func (r *RawRecord) Name() string {
	return r.Tags["name"]
}

// response is the remote endpoint's JSON envelope.
type response struct {
	Elements []RawRecord `json:"elements"`
}
