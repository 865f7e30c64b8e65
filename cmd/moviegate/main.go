// Command moviegate runs the read-only movies query gateway: an HTTP API
// over the film/genre/person search index fronted by a Redis read-through
// cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviegate/moviegate/internal/config"
	"github.com/moviegate/moviegate/internal/server"
	"github.com/moviegate/moviegate/pkg/cache"
	"github.com/moviegate/moviegate/pkg/logging"
	"github.com/moviegate/moviegate/pkg/search"
	"github.com/moviegate/moviegate/pkg/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logging.Setup(logging.DefaultConfig())
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("moviegate")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared connection handles, acquired once and passed down
	// explicitly; released on shutdown.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")

	provider, err := search.NewElastic(cfg.ElasticAddr, cfg.SourceTimeout, logging.NewLogger("search"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create search index client")
	}
	if err := provider.Ping(ctx); err != nil {
		// The gateway still starts: reads degrade to not-found/empty
		// until the index comes back.
		logger.Warn().Err(err).Str("addr", cfg.ElasticAddr).Msg("Search index not reachable at startup")
	}

	store := cache.NewStore(redisClient)
	cacheLogger := logging.NewLogger("cache")
	serviceLogger := logging.NewLogger("service")

	svcs := server.Services{
		Films: service.NewFilms(
			provider, cfg.MoviesIndex,
			cache.NewReadThrough(store, cfg.FilmCacheTTL, cacheLogger),
			serviceLogger,
		),
		Genres: service.NewGenres(
			provider, cfg.GenresIndex,
			cache.NewReadThrough(store, cfg.GenreCacheTTL, cacheLogger),
			serviceLogger,
		),
		Persons: service.NewPersons(
			provider, cfg.PersonsIndex,
			cache.NewReadThrough(store, cfg.PersonCacheTTL, cacheLogger),
			serviceLogger,
		),
	}

	srv := server.New(":"+cfg.Port, svcs, store, provider, logging.NewLogger("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn().Err(err).Msg("Closing Redis client")
	}
	logger.Info().Msg("Gateway stopped")
}
