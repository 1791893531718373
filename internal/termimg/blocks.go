package termimg

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/llehouerou/pokemonsay/internal/geometry"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// BlocksPrinter draws two pixel rows per text row using half-block glyphs
// coloured with ANSI true colour. Transparent pixels are left blank.
type BlocksPrinter struct{}

func (BlocksPrinter) Name() string { return ProtocolBlocks }

func (BlocksPrinter) Print(w io.Writer, img image.Image, fit geometry.Fit) error {
	if isEmpty(img) {
		return nil
	}
	b := img.Bounds()
	cols, rows := Cells(b.Dx(), b.Dy(), fit)
	scaled := scale(img, cols, rows*2)

	r := lipgloss.NewRenderer(w)
	if _, err := io.WriteString(w, renderBlocks(r, scaled)); err != nil {
		return fmt.Errorf("write blocks: %w", err)
	}
	return nil
}

// renderBlocks returns one line per pair of pixel rows, each terminated by
// a newline.
func renderBlocks(r *lipgloss.Renderer, img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, topOK := hexColor(img.At(x, y))
			bottom, bottomOK := "", false
			if y+1 < b.Max.Y {
				bottom, bottomOK = hexColor(img.At(x, y+1))
			}

			switch {
			case topOK && bottomOK:
				sb.WriteString(r.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom)).
					Render(upperHalf))
			case topOK:
				sb.WriteString(r.NewStyle().Foreground(lipgloss.Color(top)).Render(upperHalf))
			case bottomOK:
				sb.WriteString(r.NewStyle().Foreground(lipgloss.Color(bottom)).Render(lowerHalf))
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// hexColor returns c as a #rrggbb string, or false when c is fully transparent.
func hexColor(c color.Color) (string, bool) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Clamped().Hex(), true
}

// NonePrinter prints nothing. It backs the "none" protocol.
type NonePrinter struct{}

func (NonePrinter) Name() string { return ProtocolNone }

func (NonePrinter) Print(io.Writer, image.Image, geometry.Fit) error { return nil }
