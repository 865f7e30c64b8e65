// Package models holds the index document records served by the gateway.
// The cache layer treats these as opaque payloads; JSON tags follow the
// document fields of the search index.
package models

// Person is a base record for actors, directors and writers.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Genre is a film genre record.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Film is a full film record as stored in the movies index.
type Film struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	CreationDate string   `json:"creation_date,omitempty"`
	IMDBRating   float64  `json:"imdb_rating"`
	Director     []string `json:"director,omitempty"`
	Actors       []Person `json:"actors,omitempty"`
	Writers      []Person `json:"writers,omitempty"`
	Genre        []Genre  `json:"genre,omitempty"`
	FilePath     string   `json:"file_path,omitempty"`
}
