package domain

import "net/url"

// Spot is a named surf break.
type Spot struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	CameraURL string  `json:"camera_url,omitempty"`
}

// CameraLink returns the spot's webcam URL, or a web search for the spot's
// name when no direct link is known.
func (s Spot) CameraLink() string {
	if s.CameraURL != "" {
		return s.CameraURL
	}
	q := url.Values{"q": {"viewsurf webcam " + s.Name}}
	return "https://www.google.com/search?" + q.Encode()
}

var spots = []Spot{
	{Slug: "lacanau-ocean", Name: "Lacanau Océan", Region: "Gironde", Lat: 44.994, Lon: -1.210,
		CameraURL: "https://m.viewsurf.com/univers/surf/vue/7168-france-nouvelle-aquitaine-gironde-lacanau-panorama-lacanau"},
	{Slug: "le-porge-ocean", Name: "Le Porge (Océan)", Region: "Gironde", Lat: 44.889, Lon: -1.253},
	{Slug: "carcans-plage", Name: "Carcans Plage", Region: "Gironde", Lat: 45.080, Lon: -1.220},
	{Slug: "biscarrosse-plage", Name: "Biscarrosse Plage", Region: "Landes", Lat: 44.441, Lon: -1.252},
	{Slug: "mimizan-plage", Name: "Mimizan Plage", Region: "Landes", Lat: 44.213, Lon: -1.295},
	{Slug: "seignosse-estagnots", Name: "Seignosse (Les Estagnots)", Region: "Landes", Lat: 43.703, Lon: -1.448},
	{Slug: "hossegor-la-graviere", Name: "Hossegor (La Gravière)", Region: "Landes", Lat: 43.674, Lon: -1.444},
	{Slug: "capbreton-la-piste", Name: "Capbreton (La Piste)", Region: "Landes", Lat: 43.646, Lon: -1.441},
	{Slug: "anglet-les-cavaliers", Name: "Anglet (Les Cavaliers)", Region: "Pays Basque", Lat: 43.514, Lon: -1.542},
	{Slug: "biarritz-cote-des-basques", Name: "Biarritz (Côte des Basques)", Region: "Pays Basque", Lat: 43.478, Lon: -1.571},
	{Slug: "la-torche", Name: "La Torche", Region: "Bretagne", Lat: 47.837, Lon: -4.359},
	{Slug: "penhors", Name: "Penhors", Region: "Bretagne", Lat: 47.930, Lon: -4.392,
		CameraURL: "https://viewsurf.com/univers/surf/vue/3807-france-bretagne-finistere-penmarch-pors-carn-penhors"},
	{Slug: "crozon-la-palue", Name: "Crozon (La Palue)", Region: "Bretagne", Lat: 48.195, Lon: -4.546},
}

// Spots returns a copy of the spot catalog in display order.
func Spots() []Spot {
	out := make([]Spot, len(spots))
	copy(out, spots)
	return out
}

// SpotBySlug looks a spot up by its exact slug.
func SpotBySlug(slug string) (Spot, bool) {
	for _, s := range spots {
		if s.Slug == slug {
			return s, true
		}
	}
	return Spot{}, false
}
