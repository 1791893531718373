package termimg

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/mattn/go-sixel"

	"github.com/llehouerou/pokemonsay/internal/geometry"
)

// SixelPrinter rasterizes images to the terminal's pixel grid and emits
// them as Sixel data.
type SixelPrinter struct {
	cellSize
}

// NewSixelPrinter creates a SixelPrinter.
// It queries the terminal for actual cell pixel dimensions via TIOCGWINSZ.
func NewSixelPrinter() *SixelPrinter {
	return &SixelPrinter{cellSize: newCellSize()}
}

func (s *SixelPrinter) Name() string { return ProtocolSixel }

func (s *SixelPrinter) Print(w io.Writer, img image.Image, fit geometry.Fit) error {
	if isEmpty(img) {
		return nil
	}
	pw, ph := s.pixelBox(img, fit)

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = false
	if err := enc.Encode(scale(img, pw, ph)); err != nil {
		return fmt.Errorf("encode sixel: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write sixel image: %w", err)
	}
	return writeNewline(w)
}
