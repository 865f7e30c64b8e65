package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(h *handler) http.Handler {
	mux := http.NewServeMux()

	// films
	mux.HandleFunc("GET /api/v1/films/{$}", h.filmsList)
	mux.HandleFunc("GET /api/v1/films/search", h.filmsSearch)
	mux.HandleFunc("GET /api/v1/films/{id}", h.filmDetails)

	// genres
	mux.HandleFunc("GET /api/v1/genres/{$}", h.genresList)
	mux.HandleFunc("GET /api/v1/genres/search", h.genresSearch)
	mux.HandleFunc("GET /api/v1/genres/{id}", h.genreDetails)

	// persons
	mux.HandleFunc("GET /api/v1/persons/{$}", h.personsList)
	mux.HandleFunc("GET /api/v1/persons/search", h.personsSearch)
	mux.HandleFunc("GET /api/v1/persons/{id}", h.personDetails)
	mux.HandleFunc("GET /api/v1/persons/{id}/film", h.personFilms)

	// operational
	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
