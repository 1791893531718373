// Package geometry crops sprites to their visible pixels and computes the
// size they should be displayed at.
package geometry

import (
	"image"
	"image/draw"
)

// Fit is the single dimension the renderer should honor.
// Zero means unset; at most one of Width and Height is non-zero.
type Fit struct {
	Width  int
	Height int
}

// IsZero reports whether no dimension is constrained.
func (f Fit) IsZero() bool {
	return f.Width == 0 && f.Height == 0
}

// FitWithin returns the constraint keeping a w x h image within maxDim
// cells along its longest side. A maxDim of 0 disables the constraint.
// Square images are constrained by height.
func FitWithin(w, h, maxDim int) Fit {
	if maxDim <= 0 {
		return Fit{}
	}
	if w > h {
		return Fit{Width: min(w, maxDim)}
	}
	return Fit{Height: min(h, maxDim)}
}

// OpaqueBounds returns the smallest rectangle containing every pixel whose
// alpha is above zero. ok is false when the image is fully transparent.
func OpaqueBounds(img image.Image) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !opaque(img, x, y) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if minX > maxX || minY > maxY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func opaque(img image.Image, x, y int) bool {
	// Fast path for the decoder's usual output.
	if n, ok := img.(*image.NRGBA); ok {
		return n.Pix[n.PixOffset(x, y)+3] > 0
	}
	_, _, _, a := img.At(x, y).RGBA()
	return a > 0
}

// CropTransparent returns a copy of img trimmed to its opaque bounds,
// anchored at (0,0). A fully transparent image yields a 0x0 image.
func CropTransparent(img image.Image) *image.NRGBA {
	r, ok := OpaqueBounds(img)
	if !ok {
		return image.NewNRGBA(image.Rectangle{})
	}

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// ToNRGBA returns img as an *image.NRGBA, converting when needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
