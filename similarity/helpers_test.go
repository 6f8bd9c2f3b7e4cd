package similarity

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func solidRGBA(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func patternRGBA(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*7 + y*13) % 256),
				G: uint8((x*31 + y*3) % 256),
				B: uint8((x*x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func toMat(t *testing.T, img image.Image) gocv.Mat {
	t.Helper()
	mat, err := gocv.ImageToMatRGB(img)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func solidMat(t *testing.T, width, height int, c color.RGBA) gocv.Mat {
	return toMat(t, solidRGBA(width, height, c))
}

// grayGradientMat builds a single-channel image whose brightness changes by
// step per column, starting at base.
func grayGradientMat(t *testing.T, width, height, base, step int) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	t.Cleanup(func() { mat.Close() })
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mat.SetUCharAt(y, x, uint8(base+step*x))
		}
	}
	return mat
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)
