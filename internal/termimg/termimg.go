// Package termimg prints images inline in a terminal using the Kitty,
// iTerm2 or Sixel graphics protocols, with a half-block fallback.
package termimg

import (
	"fmt"
	"image"
	"io"

	"github.com/nfnt/resize"

	"github.com/llehouerou/pokemonsay/internal/geometry"
)

// Protocol names accepted by Detect.
const (
	ProtocolAuto   = "auto"
	ProtocolKitty  = "kitty"
	ProtocolITerm  = "iterm"
	ProtocolSixel  = "sixel"
	ProtocolBlocks = "blocks"
	ProtocolNone   = "none"
)

// Printer writes an image to a terminal.
type Printer interface {
	// Name returns the protocol name.
	Name() string

	// Print writes img sized to fit, followed by a newline.
	// A zero Fit prints the image at its natural size.
	Print(w io.Writer, img image.Image, fit geometry.Fit) error
}

// Cells returns the size in half-block cells of an imgW x imgH image
// constrained by fit. A half-block cell holds one pixel column and two pixel
// rows, so the row count is half the pixel height when unconstrained.
func Cells(imgW, imgH int, fit geometry.Fit) (cols, rows int) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0
	}
	switch {
	case fit.Width > 0:
		cols = fit.Width
		rows = ceilDiv(cols*imgH, imgW*2)
	case fit.Height > 0:
		rows = fit.Height
		cols = ceilDiv(rows*2*imgW, imgH)
	default:
		cols = imgW
		rows = ceilDiv(imgH, 2)
	}
	return max(cols, 1), max(rows, 1)
}

// PixelSize returns the pixel box of an imgW x imgH image constrained by fit
// on a terminal whose cells are cellW x cellH pixels. Only the constrained
// side comes from the cell size; the other keeps the image aspect ratio.
// A zero Fit keeps the natural size.
func PixelSize(imgW, imgH int, fit geometry.Fit, cellW, cellH int) (w, h int) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0
	}
	switch {
	case fit.IsZero():
		return imgW, imgH
	case fit.Width > 0:
		w = fit.Width * cellW
		h = roundDiv(w*imgH, imgW)
	default:
		h = fit.Height * cellH
		w = roundDiv(h*imgW, imgH)
	}
	return max(w, 1), max(h, 1)
}

// cellSize is the pixel size of one terminal cell.
type cellSize struct {
	cellW int
	cellH int
}

func newCellSize() cellSize {
	cellW, cellH := getCellSize()
	return cellSize{cellW: cellW, cellH: cellH}
}

// pixelBox returns the pixel size img should be scaled to for fit.
func (c cellSize) pixelBox(img image.Image, fit geometry.Fit) (w, h int) {
	b := img.Bounds()
	return PixelSize(b.Dx(), b.Dy(), fit, c.cellW, c.cellH)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func roundDiv(a, b int) int {
	return (a + b/2) / b
}

// scale resizes img to w x h pixels with nearest-neighbour sampling,
// which keeps pixel-art edges sharp.
func scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor)
}

func isEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}

func writeNewline(w io.Writer) error {
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Cell pixel size assumed when the terminal does not report one.
const (
	defaultCellW = 8
	defaultCellH = 16
)
