package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/cache"
	"github.com/moviegate/moviegate/pkg/models"
	"github.com/moviegate/moviegate/pkg/search"
)

var genreSearchFields = []string{"name", "description"}

// Genres serves genre queries through the read-through cache.
type Genres struct {
	provider search.Provider
	index    string
	cache    *cache.ReadThrough
	logger   zerolog.Logger
}

// NewGenres creates the genre facade over the given provider and cache.
func NewGenres(provider search.Provider, index string, rt *cache.ReadThrough, logger zerolog.Logger) *Genres {
	return &Genres{
		provider: provider,
		index:    index,
		cache:    rt,
		logger:   logger,
	}
}

// GetByID returns the genre with the given id, or nil when absent.
func (s *Genres) GetByID(ctx context.Context, id string) *models.Genre {
	genre, err := cache.Entity[models.Genre](ctx, s.cache, idKey("Genre", id), func(ctx context.Context) (json.RawMessage, error) {
		return s.provider.GetByID(ctx, s.index, id)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("genre_id", id).Msg("Genre lookup degraded to not found")
		return nil
	}
	return genre
}

// GetList returns one page of genres.
func (s *Genres) GetList(ctx context.Context, p ListParams) []models.Genre {
	p.GenreID = ""

	genres, err := cache.List[models.Genre](ctx, s.cache, listKey("Genre", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.MatchAll(search.ParseSort(p.Sort), page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Genre list degraded to empty result")
		return []models.Genre{}
	}
	return genres
}

// Search returns one page of genres matching the fuzzy full-text query
// over name and description.
func (s *Genres) Search(ctx context.Context, p SearchParams) []models.Genre {
	genres, err := cache.List[models.Genre](ctx, s.cache, searchKey("Genre", p), func(ctx context.Context) ([]json.RawMessage, error) {
		page := search.Page{Size: p.PageSize, Number: p.PageNumber}
		return s.provider.Search(ctx, s.index, search.MultiMatch(p.Query, genreSearchFields, page))
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", p.Query).Msg("Genre search degraded to empty result")
		return []models.Genre{}
	}
	return genres
}
