package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/cache"
	"github.com/moviegate/moviegate/pkg/models"
	"github.com/moviegate/moviegate/pkg/search"
)

var personSearchFields = []string{"name"}

// Persons serves person queries through the read-through cache.
type Persons struct {
	provider search.Provider
	index    string
	cache    *cache.ReadThrough
	logger   zerolog.Logger
}

// NewPersons creates the person facade over the given provider and cache.
func NewPersons(provider search.Provider, index string, rt *cache.ReadThrough, logger zerolog.Logger) *Persons {
	return &Persons{
		provider: provider,
		index:    index,
		cache:    rt,
		logger:   logger,
	}
}

// GetByID returns the person with the given id, or nil when absent.
func (s *Persons) GetByID(ctx context.Context, id string) *models.Person {
	person, err := cache.Entity[models.Person](ctx, s.cache, idKey("Person", id), func(ctx context.Context) (json.RawMessage, error) {
		return s.provider.GetByID(ctx, s.index, id)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("person_id", id).Msg("Person lookup degraded to not found")
		return nil
	}
	return person
}

// GetList returns one page of persons.
func (s *Persons) GetList(ctx context.Context, p ListParams) []models.Person {
	p.GenreID = ""

	persons, err := cache.List[models.Person](ctx, s.cache, listKey("Person", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.MatchAll(search.ParseSort(p.Sort), page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Person list degraded to empty result")
		return []models.Person{}
	}
	return persons
}

// Search returns one page of persons matching the fuzzy name query.
func (s *Persons) Search(ctx context.Context, p SearchParams) []models.Person {
	persons, err := cache.List[models.Person](ctx, s.cache, searchKey("Person", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.MultiMatch(p.Query, personSearchFields, page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", p.Query).Msg("Person search degraded to empty result")
		return []models.Person{}
	}
	return persons
}
