package caption

import (
	"fmt"
	"log"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// Font locations, tried in order.
const (
	BundledFontPath = "fonts/arial.ttf"
	SystemFontPath  = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

// FontSize is the caption size in pixels (72 DPI, so points == pixels).
const FontSize = 58.0

// FaceFunc returns a fresh face. Truetype faces cache glyphs and are not
// safe for concurrent use, so each render asks for its own.
type FaceFunc func() font.Face

// FontSource is one candidate in the fallback chain.
type FontSource struct {
	Name string
	Load func(size float64) (FaceFunc, error)
}

// FileFont loads a TrueType font from disk.
func FileFont(path string) FontSource {
	return FontSource{
		Name: path,
		Load: func(size float64) (FaceFunc, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return truetypeFaces(data, size)
		},
	}
}

// EmbeddedFont loads a TrueType font compiled into the binary.
func EmbeddedFont(name string, ttf []byte) FontSource {
	return FontSource{
		Name: name,
		Load: func(size float64) (FaceFunc, error) {
			return truetypeFaces(ttf, size)
		},
	}
}

// DefaultFonts is the standard chain: bundled file, system sans-serif,
// then the embedded Go Regular face.
func DefaultFonts() []FontSource {
	return []FontSource{
		FileFont(BundledFontPath),
		FileFont(SystemFontPath),
		EmbeddedFont("goregular", goregular.TTF),
	}
}

// MinimalFontName names the last-resort face.
const MinimalFontName = "basicfont"

// ResolveFont returns the first source in sources that loads at size.
// When every source fails the fixed 7x13 bitmap face is used, so resolution
// itself never fails.
func ResolveFont(sources []FontSource, size float64) (string, FaceFunc) {
	for _, src := range sources {
		faces, err := src.Load(size)
		if err != nil {
			log.Printf("font %s unavailable: %v", src.Name, err)
			continue
		}
		return src.Name, faces
	}
	return MinimalFontName, func() font.Face { return basicfont.Face7x13 }
}

func truetypeFaces(data []byte, size float64) (FaceFunc, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	opts := &truetype.Options{Size: size}
	return func() font.Face { return truetype.NewFace(f, opts) }, nil
}
