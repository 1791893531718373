package termimg

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"

	"github.com/llehouerou/pokemonsay/internal/geometry"
)

// ITermPrinter writes images with the iTerm2 inline image protocol.
type ITermPrinter struct {
	cellSize
}

// NewITermPrinter creates an ITermPrinter sized from the terminal's cell
// pixel dimensions.
func NewITermPrinter() *ITermPrinter {
	return &ITermPrinter{cellSize: newCellSize()}
}

func (p *ITermPrinter) Name() string { return ProtocolITerm }

func (p *ITermPrinter) Print(w io.Writer, img image.Image, fit geometry.Fit) error {
	if isEmpty(img) {
		return nil
	}
	pw, ph := p.pixelBox(img, fit)
	if err := (rasterm.Settings{}).ItermWriteImage(w, scale(img, pw, ph)); err != nil {
		return fmt.Errorf("write iterm image: %w", err)
	}
	return writeNewline(w)
}
