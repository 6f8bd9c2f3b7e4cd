package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"

	"imagediff/logging"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Utility functions used across the various image loaders

// Check if exiftool is available on the system
func hasExiftool() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// Try to load an image using Go's image packages
func tryGoImagePackages(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// Convert a Go image to a 3-channel BGR Mat
func matFromGoImage(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return gocv.NewMat(), &DimensionError{Op: "convert image", Width: bounds.Dx(), Height: bounds.Dy()}
	}

	mat, err := gocv.ImageToMatRGB(compactImage(img))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot convert image to Mat: %w", err)
	}
	return mat, nil
}

// compactImage copies RGBA and NRGBA images whose pixel buffer does not start
// at the origin with a tight stride, as SubImage returns. ImageToMatRGB reads
// Pix as one contiguous w*h block.
func compactImage(img image.Image) image.Image {
	var dst draw.Image
	switch m := img.(type) {
	case *image.RGBA:
		if m.Rect.Min == (image.Point{}) && m.Stride == 4*m.Rect.Dx() {
			return img
		}
		dst = image.NewRGBA(image.Rect(0, 0, m.Rect.Dx(), m.Rect.Dy()))
	case *image.NRGBA:
		if m.Rect.Min == (image.Point{}) && m.Stride == 4*m.Rect.Dx() {
			return img
		}
		dst = image.NewNRGBA(image.Rect(0, 0, m.Rect.Dx(), m.Rect.Dy()))
	default:
		return img
	}

	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Extract an embedded image stored under the given exiftool tag
func extractTagWithExiftool(path, tag string) ([]byte, error) {
	cmd := exec.Command("exiftool", "-b", "-"+tag, path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.LogWarning("exiftool %s extraction failed: %v, stderr: %s", tag, err, stderr.String())
		return nil, err
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("exiftool returned no data for tag %s", tag)
	}

	return stdout.Bytes(), nil
}
