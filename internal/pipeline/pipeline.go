// Package pipeline picks a pokemon, loads its sprite and prepares it for the
// terminal.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/pokemonsay/internal/errmsg"
	"github.com/llehouerou/pokemonsay/internal/geometry"
	"github.com/llehouerou/pokemonsay/internal/log"
	"github.com/llehouerou/pokemonsay/internal/pokemon"
)

// Options controls a pipeline run.
type Options struct {
	Records      pokemon.Source       // required
	Sprites      pokemon.SpriteSource // required
	Crop         bool                 // trim transparent borders
	MaxDimension int                  // 0 disables the size cap
}

// Result holds the output of a pipeline run.
type Result struct {
	Record pokemon.Record
	Image  *image.NRGBA
	Fit    geometry.Fit
}

// Run executes the pipeline: select pokemon → load sprite → decode → crop →
// fit. The first failing stage aborts the run; its error is tagged with the
// stage and keeps its pokemon.Err* kind.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Records == nil || opts.Sprites == nil {
		return nil, errors.New("pipeline: record and sprite sources are required")
	}

	// 1. Select a pokemon
	rec, err := opts.Records.Random(ctx)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpSelectPokemon, err)
	}
	log.Debug("pokemon selected", "name", rec.Name, "sprite", rec.SpriteURL)

	// 2. Load its sprite
	data, err := opts.Sprites.Sprite(ctx, rec.SpriteURL)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpLoadSprite, err)
	}
	log.Debug("sprite loaded", "size", humanize.Bytes(uint64(len(data))))

	// 3. Decode
	img, err := Decode(data)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpDecodeSprite, err)
	}

	// 4. Crop
	if opts.Crop {
		before := img.Bounds().Size()
		img = geometry.CropTransparent(img)
		log.Debug("sprite cropped", "from", before, "to", img.Bounds().Size())
	}

	// 5. Fit
	size := img.Bounds().Size()
	fit := geometry.FitWithin(size.X, size.Y, opts.MaxDimension)
	log.Debug("sprite fit", "width", fit.Width, "height", fit.Height, "max", opts.MaxDimension)

	return &Result{Record: rec, Image: img, Fit: fit}, nil
}

// Decode decodes PNG bytes into an 8-bit RGBA buffer with straight alpha.
func Decode(data []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokemon.ErrDecode, err)
	}
	return geometry.ToNRGBA(img), nil
}
