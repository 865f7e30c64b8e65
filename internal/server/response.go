package server

import (
	"encoding/json"
	"net/http"

	"github.com/moviegate/moviegate/pkg/models"
)

// API response views. The index records carry fields the API does not
// expose (file paths in particular), so responses are remapped instead of
// serializing the business models directly.

type filmListItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	IMDBRating float64 `json:"imdb_rating"`
}

type filmDetail struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	IMDBRating   float64         `json:"imdb_rating"`
	Description  string          `json:"description"`
	CreationDate string          `json:"creation_date,omitempty"`
	Director     []string        `json:"director"`
	Actors       []models.Person `json:"actors"`
	Writers      []models.Person `json:"writers"`
	Genre        []models.Genre  `json:"genre"`
}

type genreResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type personResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func mapFilmList(films []models.Film) []filmListItem {
	items := make([]filmListItem, 0, len(films))
	for _, f := range films {
		items = append(items, filmListItem{ID: f.ID, Title: f.Title, IMDBRating: f.IMDBRating})
	}
	return items
}

func mapFilmDetail(f *models.Film) filmDetail {
	return filmDetail{
		ID:           f.ID,
		Title:        f.Title,
		IMDBRating:   f.IMDBRating,
		Description:  f.Description,
		CreationDate: f.CreationDate,
		Director:     f.Director,
		Actors:       f.Actors,
		Writers:      f.Writers,
		Genre:        f.Genre,
	}
}

func mapGenres(genres []models.Genre) []genreResponse {
	items := make([]genreResponse, 0, len(genres))
	for _, g := range genres {
		items = append(items, genreResponse(g))
	}
	return items
}

func mapPersons(persons []models.Person) []personResponse {
	items := make([]personResponse, 0, len(persons))
	for _, p := range persons {
		items = append(items, personResponse(p))
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
