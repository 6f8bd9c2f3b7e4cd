package imageprocessor

import (
	"imagediff/logging"

	"gocv.io/x/gocv"
)

// StandardImageLoader handles common image formats like JPEG, PNG, etc.
type StandardImageLoader struct {
	BaseImageLoader
}

// NewStandardImageLoader creates a new loader for standard image formats
func NewStandardImageLoader() *StandardImageLoader {
	return &StandardImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{
				FormatJPEG,
				FormatPNG,
				FormatGIF,
				FormatBMP,
				FormatWEBP,
				FormatTIFF,
			},
		},
	}
}

// LoadImage loads a standard image format. OpenCV is tried first; files it
// cannot decode (GIF on most builds, some TIFF/WebP variants) go through the
// Go image decoders instead.
func (l *StandardImageLoader) LoadImage(path string) (gocv.Mat, error) {
	img, err := l.DefaultLoadImage(path)
	if err == nil {
		return img, nil
	}

	logging.DebugLog("OpenCV could not read %s, trying Go image decoders", path)

	goImg, goErr := tryGoImagePackages(path)
	if goErr != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: goErr}
	}

	mat, convErr := matFromGoImage(goImg)
	if convErr != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: convErr}
	}
	return mat, nil
}
