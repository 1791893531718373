// Package caption renders the "Wild X appeared!" line and the speech box
// printed under the sprite.
package caption

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Placeholder is replaced with the upper-cased creature name.
const Placeholder = "{pokemon}"

// Box padding in cells around the caption text.
const (
	padX = 4
	padY = 1
)

var boxBorder = lipgloss.Border{
	Top:         "═",
	Bottom:      "═",
	Left:        "‖",
	Right:       "‖",
	TopLeft:     "◓",
	TopRight:    "◓",
	BottomLeft:  "◓",
	BottomRight: "◓",
}

// Render fills template with name. Every occurrence of Placeholder is
// replaced; the rest of the template is kept as is.
func Render(template, name string) string {
	text := strings.ReplaceAll(Sanitize(template), Placeholder, strings.ToUpper(Sanitize(name)))
	return strings.TrimSpace(text)
}

// Box draws text inside the speech box. When maxWidth is positive the text
// is truncated so the whole box fits within maxWidth cells.
func Box(r *lipgloss.Renderer, text string, maxWidth int) string {
	if maxWidth > 0 {
		text = Truncate(text, maxWidth-2-2*padX)
	}
	return r.NewStyle().
		Border(boxBorder).
		Padding(padY, padX).
		Render(text)
}

const ellipsis = "..."

// Truncate shortens s to fit within maxWidth cells, adding an ellipsis
// if truncated. Grapheme clusters are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	limit := maxWidth - len(ellipsis)
	if limit <= 0 {
		return ellipsis[:maxWidth]
	}

	var b strings.Builder
	width := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		w := runewidth.StringWidth(cluster)
		if width+w > limit {
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String() + ellipsis
}

// Sanitize removes escape sequences, control characters (except tab) and
// invalid UTF-8 bytes. Non-breaking spaces become regular spaces.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	s = ansi.Strip(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			// Invalid byte, skip it
		case r != '\t' && unicode.IsControl(r):
			// Control character, skip
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// needsSanitize returns true if the string contains bytes that need sanitizing.
func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 && b != '\t' || b == 0x7f {
			return true
		}
		if b >= 0x80 && b <= 0x9f { // C1 control range / invalid lead bytes
			return true
		}
		if b == 0xc2 && i+1 < len(s) && s[i+1] <= 0xa0 { // NBSP or C1 controls
			return true
		}
	}
	return !utf8.ValidString(s)
}

// ReadTemplate reads the first line of r, trimmed. It reports false when
// the line is empty.
func ReadTemplate(r io.Reader) (string, bool, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read template: %w", err)
	}
	line = strings.TrimSpace(line)
	return line, line != "", nil
}

// StdinTemplate returns the template piped on f. Nothing is read when f is
// a terminal.
func StdinTemplate(f *os.File) (string, bool, error) {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return "", false, nil
	}
	return ReadTemplate(f)
}
