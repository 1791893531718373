package termimg

import (
	"fmt"
	"os"
	"strings"

	"github.com/BourgeoisBear/rasterm"
)

// Detect returns the printer for protocol. ProtocolAuto (or "") picks the
// best protocol the current terminal advertises, falling back to half blocks.
func Detect(protocol string) (Printer, error) {
	switch protocol {
	case ProtocolAuto, "":
		return detectAuto(), nil
	case ProtocolKitty:
		return KittyPrinter{}, nil
	case ProtocolITerm:
		return NewITermPrinter(), nil
	case ProtocolSixel:
		return NewSixelPrinter(), nil
	case ProtocolBlocks:
		return BlocksPrinter{}, nil
	case ProtocolNone:
		return NonePrinter{}, nil
	default:
		return nil, fmt.Errorf("unknown image protocol %q", protocol)
	}
}

func detectAuto() Printer {
	if IsKittySupported() {
		return KittyPrinter{}
	}
	if IsITermSupported() {
		return NewITermPrinter()
	}
	if IsSixelSupported() {
		return NewSixelPrinter()
	}
	return BlocksPrinter{}
}

// SupportsImages reports whether p draws real pixels rather than text cells.
func SupportsImages(p Printer) bool {
	switch p.(type) {
	case KittyPrinter, *ITermPrinter, *SixelPrinter:
		return true
	}
	return false
}

// IsKittySupported checks if the terminal supports Kitty graphics protocol.
func IsKittySupported() bool {
	// Contour sets CONTOUR_PROFILE but doesn't support Kitty protocol.
	// Parent terminal env vars (e.g. GHOSTTY_RESOURCES_DIR) can leak into it.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := os.Getenv("TERM")
	if term == "xterm-kitty" || term == "xterm-ghostty" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); version != "" {
		if len(version) >= 4 && version[:4] >= "2204" {
			return true
		}
	}
	return strings.Contains(term, "kitty")
}

// IsITermSupported checks for iTerm2 and WezTerm, which both speak the
// iTerm2 inline image protocol.
func IsITermSupported() bool {
	return rasterm.IsTermItermWez()
}

// IsSixelSupported checks if the terminal supports Sixel graphics.
// Plain xterm is not trusted here since most xterm-* terminals lack sixel;
// set the protocol explicitly to force it.
func IsSixelSupported() bool {
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case term == "foot" || term == "foot-extra":
		return true
	case term == "mlterm" || strings.HasPrefix(term, "yaft"):
		return true
	case termProgram == "vscode", termProgram == "mintty":
		return true
	case termProgram == "contour" || os.Getenv("CONTOUR_PROFILE") != "":
		return true
	}
	return false
}
