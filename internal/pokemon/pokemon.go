// Package pokemon defines the record shared by every backend and the
// contracts each backend implements.
package pokemon

import (
	"context"
	"errors"
)

// Error kinds. Backends wrap these so callers can use errors.Is.
var (
	ErrNotFound      = errors.New("pokemon not found")
	ErrInvalidSprite = errors.New("invalid sprite")
	ErrMissingAsset  = errors.New("embedded sprite is missing")
	ErrDecode        = errors.New("malformed sprite image")
	ErrTransport     = errors.New("transport error")
)

// SpriteBaseURL is the prefix every PokeAPI sprite URL shares.
const SpriteBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/"

// Record is a randomly selected pokemon.
type Record struct {
	Name      string
	SpriteURL string
}

// Source picks a random pokemon.
type Source interface {
	Random(ctx context.Context) (Record, error)
}

// SpriteSource resolves a sprite URL to encoded image bytes.
type SpriteSource interface {
	Sprite(ctx context.Context, url string) ([]byte, error)
}
