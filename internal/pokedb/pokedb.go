// Package pokedb selects random pokemon from a local copy of the PokeAPI
// SQLite database.
package pokedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/llehouerou/pokemonsay/internal/db"
	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pokemon"
)

// Queries holds the SQL run by Random. Empty fields fall back to the
// defaults.
type Queries struct {
	Pokemon     string
	SpeciesName string
	Sprites     string
}

func (q Queries) withDefaults() Queries {
	if q.Pokemon == "" {
		q.Pokemon = DefaultPokemonQuery
	}
	if q.SpeciesName == "" {
		q.SpeciesName = DefaultSpeciesNameQuery
	}
	if q.Sprites == "" {
		q.Sprites = DefaultSpritesQuery
	}
	return q
}

// Store reads pokemon from a PokeAPI database.
type Store struct {
	db      *sql.DB
	queries Queries
	owned   bool
}

var _ pokemon.Source = (*Store)(nil)

// Open opens the database at path read-only.
func Open(path string, queries Queries) (*Store, error) {
	conn, err := db.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokemon.ErrTransport, err)
	}
	s := New(conn, queries)
	s.owned = true
	return s, nil
}

// New wraps an existing connection. Close does not close conn.
func New(conn *sql.DB, queries Queries) *Store {
	return &Store{db: conn, queries: queries.withDefaults()}
}

// Close releases the connection if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Random returns a random pokemon with its English species name and a
// sprite URL.
func (s *Store) Random(ctx context.Context) (pokemon.Record, error) {
	var (
		id, speciesID int64
		name          string
	)
	if err := s.queryOne(ctx, "pokemon", s.queries.Pokemon, nil, &id, &name, &speciesID); err != nil {
		return pokemon.Record{}, err
	}
	log.Debug("selected pokemon", "id", id, "name", name, "species_id", speciesID)

	var (
		nameID      int64
		genus       sql.NullString
		speciesName string
	)
	if err := s.queryOne(ctx, "pokemon species name", s.queries.SpeciesName, []any{speciesID}, &nameID, &genus, &speciesName); err != nil {
		return pokemon.Record{}, err
	}

	var (
		spritesID int64
		sprite    sql.NullString
	)
	if err := s.queryOne(ctx, "pokemon sprites", s.queries.Sprites, []any{id}, &spritesID, &sprite); err != nil {
		return pokemon.Record{}, err
	}

	url := db.NullStringValue(sprite)
	if err := ValidateSprite(url); err != nil {
		return pokemon.Record{}, err
	}

	return pokemon.Record{Name: speciesName, SpriteURL: url}, nil
}

func (s *Store) queryOne(ctx context.Context, what, query string, args []any, dest ...any) error {
	found, err := db.QueryOne(ctx, s.db, query, args, dest...)
	if err != nil {
		return fmt.Errorf("%w: query %s: %w", pokemon.ErrTransport, what, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", what, pokemon.ErrNotFound)
	}
	return nil
}

// ValidateSprite rejects empty sprite fields and fields holding JSON that
// is not a string. Anything else, including text that is not JSON at all,
// is accepted as is.
func ValidateSprite(sprite string) error {
	if sprite == "" {
		return fmt.Errorf("sprite is empty: %w", pokemon.ErrInvalidSprite)
	}
	var v any
	if err := json.Unmarshal([]byte(sprite), &v); err == nil {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("sprite %s is not a string: %w", sprite, pokemon.ErrInvalidSprite)
		}
	}
	return nil
}

// SpriteURLs lists every distinct front_default sprite URL in the database.
func (s *Store) SpriteURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, spriteURLsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query sprite urls: %w", pokemon.ErrTransport, err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u sql.NullString
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan sprite url: %w", err)
		}
		if v := db.NullStringValue(u); v != "" {
			urls = append(urls, v)
		}
	}
	return urls, rows.Err()
}
