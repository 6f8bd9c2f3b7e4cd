// Package imageprocessor loads images into gocv Mats and supplies the
// grayscale, normalization and resampling capabilities the comparators use.
package imageprocessor

import (
	"os"

	"gocv.io/x/gocv"
)

// ImageLoader interface defines methods for image loading
type ImageLoader interface {
	// CanLoad determines if this loader can handle the given file
	CanLoad(path string) bool

	// LoadImage loads an image and returns the gocv.Mat representation.
	// The caller owns the returned Mat.
	LoadImage(path string) (gocv.Mat, error)
}

// BaseImageLoader provides common functionality for all image loaders
type BaseImageLoader struct {
	// Formats this loader can handle
	SupportedFormats []FormatType
}

// CanLoad checks if this loader supports the file's format
func (l *BaseImageLoader) CanLoad(path string) bool {
	format := GetFileFormat(path)

	for _, supported := range l.SupportedFormats {
		if format == supported {
			return fileExists(path)
		}
	}

	return false
}

// readFlags decodes to 3-channel BGR and keeps pixels in stored order. EXIF
// orientation is not applied, matching the Go decoders used as fallback.
const readFlags = gocv.IMReadColor | gocv.IMReadIgnoreOrientation

// DefaultLoadImage reads the file with OpenCV in color mode
func (l *BaseImageLoader) DefaultLoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, readFlags)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), newImageLoadError("OpenCV could not decode file", path)
	}
	return img, nil
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
