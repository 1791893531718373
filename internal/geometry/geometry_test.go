package geometry

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		maxDim int
		want   Fit
	}{
		{name: "landscape capped", w: 40, h: 20, maxDim: 30, want: Fit{Width: 30}},
		{name: "portrait capped", w: 20, h: 40, maxDim: 30, want: Fit{Height: 30}},
		{name: "square prefers height", w: 30, h: 30, maxDim: 30, want: Fit{Height: 30}},
		{name: "square smaller than cap", w: 12, h: 12, maxDim: 30, want: Fit{Height: 12}},
		{name: "landscape under cap", w: 20, h: 10, maxDim: 30, want: Fit{Width: 20}},
		{name: "no cap landscape", w: 40, h: 20, maxDim: 0, want: Fit{}},
		{name: "no cap portrait", w: 20, h: 40, maxDim: 0, want: Fit{}},
		{name: "empty image", w: 0, h: 0, maxDim: 30, want: Fit{Height: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitWithin(tt.w, tt.h, tt.maxDim)
			if got != tt.want {
				t.Errorf("FitWithin(%d, %d, %d) = %+v, want %+v", tt.w, tt.h, tt.maxDim, got, tt.want)
			}
			if got.Width != 0 && got.Height != 0 {
				t.Errorf("both dimensions set: %+v", got)
			}
			if tt.maxDim > 0 && (got.Width > tt.maxDim || got.Height > tt.maxDim) {
				t.Errorf("fit %+v exceeds max %d", got, tt.maxDim)
			}
		})
	}
}

func TestFit_IsZero(t *testing.T) {
	assert.True(t, Fit{}.IsZero())
	assert.False(t, Fit{Width: 1}.IsZero())
	assert.False(t, Fit{Height: 1}.IsZero())
}

// newSprite returns a transparent w x h image with the given pixels opaque.
func newSprite(w, h int, opaque ...image.Point) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, p := range opaque {
		img.SetNRGBA(p.X, p.Y, color.NRGBA{R: uint8(p.X), G: uint8(p.Y), B: 200, A: 255})
	}
	return img
}

func TestOpaqueBounds(t *testing.T) {
	img := newSprite(10, 8, image.Pt(2, 3), image.Pt(6, 1), image.Pt(4, 5))

	r, ok := OpaqueBounds(img)

	require.True(t, ok)
	assert.Equal(t, image.Rect(2, 1, 7, 6), r)
}

func TestOpaqueBounds_FaintAlphaCounts(t *testing.T) {
	img := newSprite(5, 5)
	img.SetNRGBA(4, 4, color.NRGBA{A: 1})

	r, ok := OpaqueBounds(img)

	require.True(t, ok)
	assert.Equal(t, image.Rect(4, 4, 5, 5), r)
}

func TestOpaqueBounds_Transparent(t *testing.T) {
	_, ok := OpaqueBounds(newSprite(4, 4))
	assert.False(t, ok)
}

func TestOpaqueBounds_OffsetImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 30, 40))
	img.Set(15, 25, color.RGBA{A: 255})

	r, ok := OpaqueBounds(img)

	require.True(t, ok)
	assert.Equal(t, image.Rect(15, 25, 16, 26), r)
}

func TestCropTransparent(t *testing.T) {
	pts := []image.Point{image.Pt(2, 3), image.Pt(6, 1), image.Pt(4, 5)}
	img := newSprite(10, 8, pts...)

	got := CropTransparent(img)

	require.Equal(t, image.Rect(0, 0, 5, 5), got.Bounds())
	for _, p := range pts {
		want := img.NRGBAAt(p.X, p.Y)
		assert.Equal(t, want, got.NRGBAAt(p.X-2, p.Y-1), "pixel %v", p)
	}
}

func TestCropTransparent_Minimal(t *testing.T) {
	img := newSprite(12, 9, image.Pt(3, 2), image.Pt(8, 7))

	got := CropTransparent(img)
	b := got.Bounds()

	// Every border row and column must hold at least one opaque pixel.
	edges := map[string]func(x, y int) bool{
		"top":    func(_, y int) bool { return y == b.Min.Y },
		"bottom": func(_, y int) bool { return y == b.Max.Y-1 },
		"left":   func(x, _ int) bool { return x == b.Min.X },
		"right":  func(x, _ int) bool { return x == b.Max.X-1 },
	}
	for name, onEdge := range edges {
		found := false
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if onEdge(x, y) && got.NRGBAAt(x, y).A > 0 {
					found = true
				}
			}
		}
		assert.True(t, found, "%s edge has no opaque pixel", name)
	}
}

func TestCropTransparent_AllTransparent(t *testing.T) {
	got := CropTransparent(newSprite(16, 16))

	assert.Equal(t, 0, got.Bounds().Dx())
	assert.Equal(t, 0, got.Bounds().Dy())
}

func TestCropTransparent_Idempotent(t *testing.T) {
	img := newSprite(10, 10, image.Pt(1, 1), image.Pt(7, 4), image.Pt(3, 8))

	once := CropTransparent(img)
	twice := CropTransparent(once)

	assert.Equal(t, once.Bounds(), twice.Bounds())
	assert.Equal(t, once.Pix, twice.Pix)
}

func TestCropTransparent_DoesNotMutateInput(t *testing.T) {
	img := newSprite(6, 6, image.Pt(2, 2))
	before := append([]byte(nil), img.Pix...)

	_ = CropTransparent(img)

	assert.Equal(t, before, img.Pix)
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 9))
	src.Set(6, 7, color.RGBA{R: 255, A: 255})

	got := ToNRGBA(src)

	assert.Equal(t, image.Rect(0, 0, 3, 4), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, got.NRGBAAt(1, 2))

	n := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, n, ToNRGBA(n))
}
