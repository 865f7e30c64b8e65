package search

import (
	"strings"
)

// Page carries 1-based pagination parameters.
type Page struct {
	Size   int
	Number int
}

// From returns the index offset for the page.
func (p Page) From() int {
	return (p.Number - 1) * p.Size
}

// Sort is a parsed sort term.
type Sort struct {
	Field      string
	Descending bool
}

// ParseSort parses an API sort term: a leading '-' means descending, the
// remainder is the document field name. An empty term yields no sorting.
func ParseSort(term string) Sort {
	if field, ok := strings.CutPrefix(term, "-"); ok {
		return Sort{Field: field, Descending: true}
	}
	return Sort{Field: term}
}

// Query is a search request body in the index's native JSON shape.
type Query map[string]any

// MatchAll builds a list query over all documents with optional sorting.
func MatchAll(sort Sort, page Page) Query {
	q := newQuery(page)
	q["query"] = map[string]any{"match_all": map[string]any{}}
	applySort(q, sort)
	return q
}

// GenreFilter builds a film list query filtered by genre id via a nested
// term filter on genre.id.
func GenreFilter(genreID string, sort Sort, page Page) Query {
	nested := map[string]any{
		"path": "genre",
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"genre.id": genreID}},
				},
			},
		},
	}
	q := newQuery(page)
	q["query"] = map[string]any{
		"bool": map[string]any{
			"filter": []any{
				map[string]any{"nested": nested},
			},
		},
	}
	applySort(q, sort)
	return q
}

// PersonFilms builds a film list query matching films the person took part
// in, as actor or writer.
func PersonFilms(personID string, sort Sort, page Page) Query {
	role := func(path string) map[string]any {
		return map[string]any{
			"nested": map[string]any{
				"path": path,
				"query": map[string]any{
					"term": map[string]any{path + ".id": personID},
				},
			},
		}
	}
	q := newQuery(page)
	q["query"] = map[string]any{
		"bool": map[string]any{
			"should":               []any{role("actors"), role("writers")},
			"minimum_should_match": 1,
		},
	}
	applySort(q, sort)
	return q
}

// MultiMatch builds a fuzzy full-text query over the given fields. Terms
// are combined with AND and matched with automatic edit-distance
// tolerance; fields may carry boost suffixes (e.g. "title^3").
func MultiMatch(text string, fields []string, page Page) Query {
	q := newQuery(page)
	q["query"] = map[string]any{
		"multi_match": map[string]any{
			"query":     text,
			"fields":    fields,
			"operator":  "and",
			"fuzziness": "AUTO",
		},
	}
	return q
}

func newQuery(page Page) Query {
	return Query{
		"size": page.Size,
		"from": page.From(),
	}
}

func applySort(q Query, sort Sort) {
	if sort.Field == "" {
		return
	}
	order := "asc"
	if sort.Descending {
		order = "desc"
	}
	q["sort"] = []any{
		map[string]any{sort.Field: map[string]any{"order": order}},
	}
}
