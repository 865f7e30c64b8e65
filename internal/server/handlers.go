package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/service"
)

type handler struct {
	films      *service.Films
	genres     *service.Genres
	persons    *service.Persons
	cachePing  Pinger
	sourcePing Pinger
	logger     zerolog.Logger
}

// Lists and searches always answer 200, empty results included; 404 is
// reserved for id lookups.

func (h *handler) filmsList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, defaultFilmSort)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapFilmList(h.films.GetList(r.Context(), params)))
}

func (h *handler) filmsSearch(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapFilmList(h.films.Search(r.Context(), params)))
}

func (h *handler) filmDetails(w http.ResponseWriter, r *http.Request) {
	film := h.films.GetByID(r.Context(), r.PathValue("id"))
	if film == nil {
		writeError(w, http.StatusNotFound, "film not found")
		return
	}
	writeJSON(w, http.StatusOK, mapFilmDetail(film))
}

func (h *handler) genresList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, defaultGenreSort)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapGenres(h.genres.GetList(r.Context(), params)))
}

func (h *handler) genresSearch(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapGenres(h.genres.Search(r.Context(), params)))
}

func (h *handler) genreDetails(w http.ResponseWriter, r *http.Request) {
	genre := h.genres.GetByID(r.Context(), r.PathValue("id"))
	if genre == nil {
		writeError(w, http.StatusNotFound, "genre not found")
		return
	}
	writeJSON(w, http.StatusOK, genreResponse(*genre))
}

func (h *handler) personsList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, defaultPersonSort)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapPersons(h.persons.GetList(r.Context(), params)))
}

func (h *handler) personsSearch(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapPersons(h.persons.Search(r.Context(), params)))
}

func (h *handler) personDetails(w http.ResponseWriter, r *http.Request) {
	person := h.persons.GetByID(r.Context(), r.PathValue("id"))
	if person == nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	writeJSON(w, http.StatusOK, personResponse(*person))
}

func (h *handler) personFilms(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r, defaultFilmSort)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	films := h.films.ListByPerson(r.Context(), r.PathValue("id"), params)
	writeJSON(w, http.StatusOK, mapFilmList(films))
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sourcePing.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Health check: search index unreachable")
		writeError(w, http.StatusServiceUnavailable, "search index unavailable")
		return
	}
	// A down cache degrades reads but does not make the gateway
	// unavailable; report it without failing the check.
	status := map[string]string{"status": "ok", "cache": "ok"}
	if err := h.cachePing.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Health check: cache unreachable")
		status["cache"] = "degraded"
	}
	writeJSON(w, http.StatusOK, status)
}
