package pipeline

import (
	"fmt"
	"io"

	"github.com/llehouerou/pokemonsay/internal/config"
	"github.com/llehouerou/pokemonsay/internal/errmsg"
	"github.com/llehouerou/pokemonsay/internal/pokeapi"
	"github.com/llehouerou/pokemonsay/internal/pokedb"
	"github.com/llehouerou/pokemonsay/internal/pokemon"
	"github.com/llehouerou/pokemonsay/internal/sprites"
)

// Sources is the pair of backends a configuration selects.
type Sources struct {
	Records pokemon.Source
	Sprites pokemon.SpriteSource

	closers []io.Closer
}

// Close releases any backend that holds resources.
func (s *Sources) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenSources builds the record and sprite sources named by cfg, which must
// already be resolved.
func OpenSources(cfg *config.Config) (*Sources, error) {
	var (
		s   Sources
		api *pokeapi.Client
	)
	httpClient := func() *pokeapi.Client {
		if api == nil {
			api = pokeapi.New(
				pokeapi.WithEndpoint(cfg.GraphQLURL),
				pokeapi.WithQuery(cfg.Queries.GraphQL),
			)
		}
		return api
	}

	switch cfg.QueryMethod {
	case config.QueryDB:
		store, err := pokedb.Open(cfg.DBPath, pokedb.Queries{
			Pokemon:     cfg.Queries.Pokemon,
			SpeciesName: cfg.Queries.SpeciesName,
			Sprites:     cfg.Queries.Sprites,
		})
		if err != nil {
			return nil, errmsg.Wrap(errmsg.OpOpenDatabase, err)
		}
		s.Records = store
		s.closers = append(s.closers, store)
	case config.QueryHTTP:
		s.Records = httpClient()
	default:
		return nil, fmt.Errorf("unknown query method %q", cfg.QueryMethod)
	}

	switch cfg.SpritesMethod {
	case config.SpritesEmbedded:
		bundle, err := sprites.LoadDir(cfg.SpritesDir)
		if err != nil {
			s.Close()
			return nil, errmsg.Wrap(errmsg.OpLoadBundle, err)
		}
		s.Sprites = bundle
	case config.SpritesHTTP:
		s.Sprites = httpClient()
	default:
		s.Close()
		return nil, fmt.Errorf("unknown sprites method %q", cfg.SpritesMethod)
	}

	return &s, nil
}
