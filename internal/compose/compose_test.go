package compose

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"upscale 4:3", 400, 300, 1200, 900},
		{"wide downscale", 3200, 900, 1600, 450},
		{"exact fit", 1600, 900, 1600, 900},
		{"tall", 300, 600, 450, 900},
		{"floors fractional", 333, 1000, 299, 900},
		{"thin vertical", 1, 2000, 1, 900},
		{"thin horizontal", 5000, 1, 1600, 1},
		{"degenerate", 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitSize(tt.w, tt.h, MaxFitWidth, MaxFitHeight)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
			require.LessOrEqual(t, w, MaxFitWidth)
			require.LessOrEqual(t, h, MaxFitHeight)
		})
	}
}

func TestFitCenter_PreservesAspect(t *testing.T) {
	src := imaging.New(400, 300, red)

	out := FitCenter(src, MaxFitWidth, MaxFitHeight)
	require.Equal(t, image.Rect(0, 0, 1200, 900), out.Bounds())
}

func TestFitCenter_ThinSourceStaysInBounds(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	out := FitCenter(imaging.New(1, 2000, white), MaxFitWidth, MaxFitHeight)
	require.Equal(t, image.Rect(0, 0, 1, 900), out.Bounds())

	out = FitCenter(imaging.New(5000, 2, white), MaxFitWidth, MaxFitHeight)
	require.Equal(t, image.Rect(0, 0, 1600, 1), out.Bounds())
}

func TestOffset(t *testing.T) {
	got := Offset(image.Rect(0, 0, 1920, 1080), image.Rect(0, 0, 1200, 900))
	require.Equal(t, image.Pt(360, 90), got)

	// Odd remainders floor
	got = Offset(image.Rect(0, 0, 1920, 1080), image.Rect(0, 0, 1599, 899))
	require.Equal(t, image.Pt(160, 90), got)
}

func TestComposite_CentersForeground(t *testing.T) {
	bg := imaging.New(CanvasWidth, CanvasHeight, blue)
	fg := imaging.New(1200, 900, red)

	out := Composite(bg, fg)
	require.Equal(t, image.Rect(0, 0, CanvasWidth, CanvasHeight), out.Bounds())

	// Foreground footprint: [360,1560) x [90,990)
	require.Equal(t, red, out.NRGBAAt(360, 90))
	require.Equal(t, red, out.NRGBAAt(1559, 989))
	require.Equal(t, blue, out.NRGBAAt(359, 90))
	require.Equal(t, blue, out.NRGBAAt(360, 89))
	require.Equal(t, blue, out.NRGBAAt(1560, 989))
	require.Equal(t, blue, out.NRGBAAt(1559, 990))

	// Inputs are not modified
	require.Equal(t, blue, bg.NRGBAAt(960, 540))
}

func TestBuildBackground_StretchesAndBlurs(t *testing.T) {
	// Left half black, right half white: the blur must soften the edge.
	src := imaging.New(64, 32, color.NRGBA{A: 255})
	for y := 0; y < 32; y++ {
		for x := 32; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	bg := BuildBackground(src, CanvasWidth, CanvasHeight)
	require.Equal(t, image.Rect(0, 0, CanvasWidth, CanvasHeight), bg.Bounds())

	mid := bg.NRGBAAt(CanvasWidth/2, CanvasHeight/2)
	require.Greater(t, mid.R, uint8(40))
	require.Less(t, mid.R, uint8(215))

	// Far edges keep their side's tone
	require.Less(t, bg.NRGBAAt(5, 5).R, uint8(20))
	require.Greater(t, bg.NRGBAAt(CanvasWidth-5, 5).R, uint8(235))
}

func TestCard_Geometry(t *testing.T) {
	src := imaging.New(400, 300, red)

	out := Card(src)
	require.Equal(t, image.Rect(0, 0, CanvasWidth, CanvasHeight), out.Bounds())
	require.Equal(t, red, out.NRGBAAt(960, 540))
}
