// Package caption word-wraps a caption and draws it over a dark banner at
// the bottom of an image, with a four-way black outline under white text.
package caption

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/hpungsan/catfact/internal/errors"
)

// Layout constants.
const (
	WrapMargin     = 100 // max line width = image width - WrapMargin
	BannerPadding  = 40  // extra banner height; half of it sits above the first line
	LineGap        = 6
	ReferenceGlyph = "A"
)

var (
	BannerColor  = color.NRGBA{A: 170}
	OutlineColor = color.Black
	TextColor    = color.White

	outlineOffsets = []image.Point{{-2, -2}, {2, -2}, {-2, 2}, {2, 2}}
)

// Renderer draws captions with a font chosen once from a fallback chain.
type Renderer struct {
	fontName string
	newFace  FaceFunc
}

// NewRenderer resolves the font chain at FontSize. With no sources the
// default chain is used.
func NewRenderer(sources ...FontSource) *Renderer {
	if len(sources) == 0 {
		sources = DefaultFonts()
	}
	name, faces := ResolveFont(sources, FontSize)
	return &Renderer{fontName: name, newFace: faces}
}

// FontName reports which font source won.
func (r *Renderer) FontName() string {
	return r.fontName
}

// Render draws text onto a copy of img and returns it PNG-encoded.
func (r *Renderer) Render(img image.Image, text string) (out []byte, err error) {
	defer func() {
		// freetype panics on some malformed glyph programs
		if p := recover(); p != nil {
			out, err = nil, errors.NewRenderFailure(fmt.Errorf("%v", p))
		}
	}()

	dc := r.draw(img, text)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.NewRenderFailure(err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(img image.Image, text string) *gg.Context {
	dc := gg.NewContextForImage(img)
	face := r.newFace()
	dc.SetFontFace(face)

	measure := measurer(face)
	width := float64(dc.Width())
	lines := Wrap(text, measure, width-WrapMargin)

	lineHeight := LineHeight(face)
	total := lineHeight*len(lines) + BannerPadding
	top := dc.Height() - total

	dc.SetColor(BannerColor)
	dc.DrawRectangle(0, float64(top), width, float64(total))
	dc.Fill()

	ascent := fixedToFloat(face.Metrics().Ascent)
	y := top + BannerPadding/2
	for _, line := range lines {
		x := math.Floor((width - measure(line)) / 2)
		baseline := float64(y) + ascent

		dc.SetColor(OutlineColor)
		for _, off := range outlineOffsets {
			dc.DrawString(line, x+float64(off.X), baseline+float64(off.Y))
		}
		dc.SetColor(TextColor)
		dc.DrawString(line, x, baseline)

		y += lineHeight + LineGap
	}
	return dc
}

// Wrap greedily packs the whitespace-separated words of text into lines
// whose measured width is at most maxWidth. A word wider than maxWidth on
// its own is kept whole on a line by itself.
func Wrap(text string, measure func(string) float64, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		if current == "" {
			// An oversized first word starts the first line; no empty line precedes it.
			current = word
			continue
		}
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// LineHeight is the distance from the top of a line box to the bottom of
// the reference glyph.
func LineHeight(face font.Face) int {
	bounds, _ := font.BoundString(face, ReferenceGlyph)
	h := (face.Metrics().Ascent + bounds.Max.Y).Ceil()
	if h <= 0 {
		return face.Metrics().Height.Ceil()
	}
	return h
}

func measurer(face font.Face) func(string) float64 {
	return func(s string) float64 {
		return fixedToFloat(font.MeasureString(face, s))
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
