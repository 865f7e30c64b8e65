// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/moviegate/moviegate/pkg/cache"
)

// Config holds all gateway configuration.
type Config struct {
	Port string `mapstructure:"port"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPassword string `mapstructure:"redis_password"`

	ElasticAddr   string        `mapstructure:"elastic_addr"`
	SourceTimeout time.Duration `mapstructure:"source_timeout"`

	MoviesIndex  string `mapstructure:"movies_index"`
	GenresIndex  string `mapstructure:"genres_index"`
	PersonsIndex string `mapstructure:"persons_index"`

	// CacheTTL is the default entry expiry; the per-entity fields
	// override it when set.
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	FilmCacheTTL   time.Duration `mapstructure:"film_cache_ttl"`
	GenreCacheTTL  time.Duration `mapstructure:"genre_cache_ttl"`
	PersonCacheTTL time.Duration `mapstructure:"person_cache_ttl"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for local development. Env keys are the upper-cased
// field keys (REDIS_ADDR, ELASTIC_ADDR, CACHE_TTL, ...).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8002")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("elastic_addr", "http://localhost:9200")
	v.SetDefault("source_timeout", 10*time.Second)
	v.SetDefault("movies_index", "movies")
	v.SetDefault("genres_index", "genres")
	v.SetDefault("persons_index", "persons")
	v.SetDefault("cache_ttl", cache.DefaultTTL)
	v.SetDefault("film_cache_ttl", 0)
	v.SetDefault("genre_cache_ttl", 0)
	v.SetDefault("person_cache_ttl", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FilmCacheTTL <= 0 {
		cfg.FilmCacheTTL = cfg.CacheTTL
	}
	if cfg.GenreCacheTTL <= 0 {
		cfg.GenreCacheTTL = cfg.CacheTTL
	}
	if cfg.PersonCacheTTL <= 0 {
		cfg.PersonCacheTTL = cfg.CacheTTL
	}

	return &cfg, nil
}
