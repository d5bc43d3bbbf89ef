// Package compose builds the blurred letterbox background and centers the
// sharp source image over it.
package compose

import (
	"image"

	"github.com/disintegration/imaging"
)

// Canvas and foreground geometry.
const (
	CanvasWidth  = 1920
	CanvasHeight = 1080
	MaxFitWidth  = 1600
	MaxFitHeight = 900

	// BlurSigma is the Gaussian standard deviation of the background blur.
	BlurSigma = 40.0
)

// BuildBackground stretches img to exactly w×h (aspect ratio is not kept)
// and blurs it.
func BuildBackground(img image.Image, w, h int) *image.NRGBA {
	bg := imaging.Resize(img, w, h, imaging.Lanczos)
	return imaging.Blur(bg, BlurSigma)
}

// FitSize returns the largest dimensions with img's aspect ratio that fit
// inside maxW×maxH: scale = min(maxW/w, maxH/h), floored per axis.
// A side that floors to 0 on an extreme aspect ratio is kept at 1 px.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
}

// FitCenter resizes img to FitSize within maxW×maxH. Images are scaled up
// as well as down, so one dimension always touches its bound.
func FitCenter(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == 0 || h == 0 {
		// empty source
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Offset returns the top-left position that centers fg over bg,
// using floor division.
func Offset(bg, fg image.Rectangle) image.Point {
	return image.Pt((bg.Dx()-fg.Dx())/2, (bg.Dy()-fg.Dy())/2)
}

// Composite pastes fg centered onto bg. Pixels of bg outside fg's footprint
// are left as they are.
func Composite(bg, fg image.Image) *image.NRGBA {
	return imaging.Paste(bg, fg, Offset(bg.Bounds(), fg.Bounds()))
}

// Card runs the full composition for one source image: blurred background,
// fitted foreground, centered paste.
func Card(src image.Image) *image.NRGBA {
	bg := BuildBackground(src, CanvasWidth, CanvasHeight)
	fg := FitCenter(src, MaxFitWidth, MaxFitHeight)
	return Composite(bg, fg)
}
