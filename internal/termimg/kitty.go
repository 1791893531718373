package termimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/llehouerou/pokemonsay/internal/geometry"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"

	chunkSize = 4096 // Max base64 bytes per escape sequence chunk
)

// KittyPrinter transmits PNG data and lets the terminal scale it. Only the
// constrained side is sent; the terminal derives the other from the image.
type KittyPrinter struct{}

func (KittyPrinter) Name() string { return ProtocolKitty }

func (KittyPrinter) Print(w io.Writer, img image.Image, fit geometry.Fit) error {
	if isEmpty(img) {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if _, err := io.WriteString(w, encodeKitty(buf.Bytes(), fit)); err != nil {
		return fmt.Errorf("write kitty image: %w", err)
	}
	return writeNewline(w)
}

// encodeKitty builds the transmit-and-display sequence for pngData sized
// by fit.
func encodeKitty(pngData []byte, fit geometry.Fit) string {
	if len(pngData) == 0 {
		return ""
	}
	b64Data := base64.StdEncoding.EncodeToString(pngData)

	// a=T: transmit and display, f=100: PNG, c or r: size in cells, q=2: quiet
	var sb strings.Builder
	for i := 0; i < len(b64Data); i += chunkSize {
		end := min(i+chunkSize, len(b64Data))
		chunk := b64Data[i:end]

		// m=1 means more chunks follow, m=0 means last chunk
		more := 0
		if end < len(b64Data) {
			more = 1
		}

		if i == 0 {
			fmt.Fprintf(&sb, "%sa=T,f=100,%sq=2,m=%d;%s%s", escStart, kittySize(fit), more, chunk, escEnd)
		} else {
			fmt.Fprintf(&sb, "%sm=%d;%s%s", escStart, more, chunk, escEnd)
		}
	}
	return sb.String()
}

// kittySize returns the c= or r= key for fit, or nothing for a zero Fit.
func kittySize(fit geometry.Fit) string {
	switch {
	case fit.IsZero():
		return ""
	case fit.Width > 0:
		return fmt.Sprintf("c=%d,", fit.Width)
	default:
		return fmt.Sprintf("r=%d,", fit.Height)
	}
}
