// Package service exposes the entity facades of the query gateway. Each
// facade composes the read-through cache with entity-specific query
// shaping against the source provider.
//
// Facades resolve failures to sentinel values instead of errors: an id
// lookup that cannot be answered is nil, a list/search is an empty slice.
// The HTTP boundary maps those to status codes; a source outage degrades
// responses, it never crashes a request.
package service

import (
	"strconv"

	"github.com/moviegate/moviegate/pkg/cache"
)

// ListParams are the canonical list-query parameters. GenreID is only
// meaningful for films; other entities leave it empty and it is omitted
// from key derivation.
type ListParams struct {
	Sort       string
	PageSize   int
	PageNumber int
	GenreID    string
}

// SearchParams are the canonical full-text search parameters. Query must
// be validated as non-empty before the facade is invoked.
type SearchParams struct {
	Query      string
	PageSize   int
	PageNumber int
}

// Operation names shared by all entities. They are part of every cache
// key, so renaming one invalidates existing entries.
const (
	opGetByID       = "get_by_id"
	opGetList       = "get_list"
	opGetSearch     = "get_search_result"
	opFilmsByPerson = "get_films_by_person_id"
)

func idKey(entity, id string) cache.Key {
	return cache.Key{
		Entity:    entity,
		Operation: opGetByID,
		Params: []cache.Param{
			{Name: "entity_id", Value: id},
		},
	}
}

// listKey derives the list key with the fixed parameter order
// sort, page_size, page_number, genre_id.
func listKey(entity string, p ListParams) cache.Key {
	return cache.Key{
		Entity:    entity,
		Operation: opGetList,
		Params: []cache.Param{
			{Name: "sort", Value: p.Sort},
			{Name: "page_size", Value: strconv.Itoa(p.PageSize)},
			{Name: "page_number", Value: strconv.Itoa(p.PageNumber)},
			{Name: "genre_id", Value: p.GenreID},
		},
	}
}

// searchKey derives the search key with the fixed parameter order
// query, page_size, page_number.
func searchKey(entity string, p SearchParams) cache.Key {
	return cache.Key{
		Entity:    entity,
		Operation: opGetSearch,
		Params: []cache.Param{
			{Name: "query", Value: p.Query},
			{Name: "page_size", Value: strconv.Itoa(p.PageSize)},
			{Name: "page_number", Value: strconv.Itoa(p.PageNumber)},
		},
	}
}
