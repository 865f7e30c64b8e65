package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/cache"
	"github.com/moviegate/moviegate/pkg/models"
	"github.com/moviegate/moviegate/pkg/search"
)

// filmSearchFields are the weighted full-text fields for film search.
var filmSearchFields = []string{"title^3", "description"}

// Films serves film queries through the read-through cache.
type Films struct {
	provider search.Provider
	index    string
	cache    *cache.ReadThrough
	logger   zerolog.Logger
}

// NewFilms creates the film facade over the given provider and cache.
func NewFilms(provider search.Provider, index string, rt *cache.ReadThrough, logger zerolog.Logger) *Films {
	return &Films{
		provider: provider,
		index:    index,
		cache:    rt,
		logger:   logger,
	}
}

// GetByID returns the film with the given id, or nil when it is absent
// from both cache and source (including source failures).
func (s *Films) GetByID(ctx context.Context, id string) *models.Film {
	film, err := cache.Entity[models.Film](ctx, s.cache, idKey("Film", id), func(ctx context.Context) (json.RawMessage, error) {
		return s.provider.GetByID(ctx, s.index, id)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("film_id", id).Msg("Film lookup degraded to not found")
		return nil
	}
	return film
}

// GetList returns one page of films, optionally filtered by genre id.
func (s *Films) GetList(ctx context.Context, p ListParams) []models.Film {
	films, err := cache.List[models.Film](ctx, s.cache, listKey("Film", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		sort := search.ParseSort(p.Sort)

		var q search.Query
		if p.GenreID != "" {
			q = search.GenreFilter(p.GenreID, sort, page)
		} else {
			q = search.MatchAll(sort, page)
		}
		return s.provider.Search(ctx, s.index, q)
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Film list degraded to empty result")
		return []models.Film{}
	}
	return films
}

// Search returns one page of films matching the fuzzy full-text query
// over title and description.
func (s *Films) Search(ctx context.Context, p SearchParams) []models.Film {
	films, err := cache.List[models.Film](ctx, s.cache, searchKey("Film", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.MultiMatch(p.Query, filmSearchFields, page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", p.Query).Msg("Film search degraded to empty result")
		return []models.Film{}
	}
	return films
}

// ListByPerson returns one page of films the person took part in.
func (s *Films) ListByPerson(ctx context.Context, personID string, p ListParams) []models.Film {
	key := cache.Key{
		Entity:    "Film",
		Operation: opFilmsByPerson,
		Params: []cache.Param{
			{Name: "person_id", Value: personID},
			{Name: "sort", Value: p.Sort},
			{Name: "page_size", Value: strconv.Itoa(p.PageSize)},
			{Name: "page_number", Value: strconv.Itoa(p.PageNumber)},
		},
	}

	films, err := cache.List[models.Film](ctx, s.cache, key, func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.PersonFilms(personID, search.ParseSort(p.Sort), page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("person_id", personID).Msg("Person films degraded to empty result")
		return []models.Film{}
	}
	return films
}
