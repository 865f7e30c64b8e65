package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/moviegate/moviegate/pkg/service"
)

const (
	defaultPageSize   = 50
	defaultPageNumber = 1

	// Default sort terms per entity; a leading '-' means descending.
	defaultFilmSort   = "-imdb_rating"
	defaultGenreSort  = "-id"
	defaultPersonSort = "-id"
)

// pagingParams parses page[size] and page[number], applying defaults and
// rejecting values below 1 before anything reaches the cache layer.
func pagingParams(r *http.Request) (size, number int, err error) {
	size, err = positiveIntParam(r, "page[size]", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	number, err = positiveIntParam(r, "page[number]", defaultPageNumber)
	if err != nil {
		return 0, 0, err
	}
	return size, number, nil
}

func positiveIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("parameter %s must be a positive integer", name)
	}
	return n, nil
}

// listParams parses the common list query parameters. The genre filter is
// only read where the route supports it; an empty filter[genre] is
// canonicalized to "no filter".
func listParams(r *http.Request, defaultSort string) (service.ListParams, error) {
	size, number, err := pagingParams(r)
	if err != nil {
		return service.ListParams{}, err
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultSort
	}

	return service.ListParams{
		Sort:       sort,
		PageSize:   size,
		PageNumber: number,
		GenreID:    r.URL.Query().Get("filter[genre]"),
	}, nil
}

// searchParams parses the search query parameters. A missing query is a
// client error surfaced before the cache layer is invoked.
func searchParams(r *http.Request) (service.SearchParams, error) {
	query := r.URL.Query().Get("query")
	if query == "" {
		return service.SearchParams{}, fmt.Errorf("query parameter is required")
	}

	size, number, err := pagingParams(r)
	if err != nil {
		return service.SearchParams{}, err
	}

	return service.SearchParams{
		Query:      query,
		PageSize:   size,
		PageNumber: number,
	}, nil
}
