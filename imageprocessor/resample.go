package imageprocessor

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Filter selects the resampling filter used by Resize
type Filter int

const (
	// FilterSmoothing averages source pixels over each target cell,
	// suppressing high-frequency detail on downscale.
	FilterSmoothing Filter = iota
	// FilterBilinear interpolates linearly between the nearest pixels.
	FilterBilinear
)

func (f Filter) String() string {
	switch f {
	case FilterSmoothing:
		return "smoothing"
	case FilterBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

func (f Filter) interpolation() (gocv.InterpolationFlags, error) {
	switch f {
	case FilterSmoothing:
		return gocv.InterpolationArea, nil
	case FilterBilinear:
		return gocv.InterpolationLinear, nil
	default:
		return 0, &ConfigError{Field: "filter", Value: f, Reason: "unknown resampling filter"}
	}
}

// CheckDimensions returns a DimensionError when img has no pixels
func CheckDimensions(op string, img gocv.Mat) error {
	if img.Empty() || img.Cols() == 0 || img.Rows() == 0 {
		return &DimensionError{Op: op, Width: img.Cols(), Height: img.Rows()}
	}
	return nil
}

// checkPixelType accepts 8-bit Mats with 1, 3 or 4 channels
func checkPixelType(img gocv.Mat) error {
	switch img.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return nil
	default:
		return fmt.Errorf("unsupported pixel type %v (want 8-bit, 1/3/4 channels)", img.Type())
	}
}

// Resize returns a new width x height Mat resampled with the given filter
func Resize(img gocv.Mat, width, height int, filter Filter) (gocv.Mat, error) {
	if err := CheckDimensions("resize", img); err != nil {
		return gocv.NewMat(), err
	}
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), &DimensionError{Op: "resize target", Width: width, Height: height}
	}

	interp, err := filter.interpolation()
	if err != nil {
		return gocv.NewMat(), err
	}

	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Point{X: width, Y: height}, 0, 0, interp)
	return resized, nil
}

// ToGrayscale returns a new single-channel luminance copy of img
func ToGrayscale(img gocv.Mat) (gocv.Mat, error) {
	if err := CheckDimensions("grayscale", img); err != nil {
		return gocv.NewMat(), err
	}
	if err := checkPixelType(img); err != nil {
		return gocv.NewMat(), err
	}

	gray := gocv.NewMat()
	switch img.Channels() {
	case 1:
		img.CopyTo(&gray)
	case 4:
		gocv.CvtColor(img, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	return gray, nil
}

// ToBGR returns a new 3-channel BGR copy of img. Grayscale pixels are
// replicated into every channel and alpha is dropped.
func ToBGR(img gocv.Mat) (gocv.Mat, error) {
	if err := CheckDimensions("normalize", img); err != nil {
		return gocv.NewMat(), err
	}
	if err := checkPixelType(img); err != nil {
		return gocv.NewMat(), err
	}

	bgr := gocv.NewMat()
	switch img.Channels() {
	case 1:
		gocv.CvtColor(img, &bgr, gocv.ColorGrayToBGR)
	case 4:
		gocv.CvtColor(img, &bgr, gocv.ColorBGRAToBGR)
	default:
		img.CopyTo(&bgr)
	}
	return bgr, nil
}
