package imageprocessor

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ImageSource is either a path to an image file or an already decoded image.
// The set of implementations is closed: PathSource, MatSource and GoImageSource.
type ImageSource interface {
	// Describe returns a short human-readable name for the source
	Describe() string

	resolve(registry *ImageLoaderRegistry) (*ResolvedImage, error)
}

// PathSource names an image file to be decoded
type PathSource struct {
	Path string
}

// MatSource wraps a Mat owned by the caller
type MatSource struct {
	Name string
	Mat  gocv.Mat
}

// GoImageSource wraps a Go image.Image owned by the caller
type GoImageSource struct {
	Name  string
	Image image.Image
}

// FromPath returns a source that loads the file at path
func FromPath(path string) ImageSource {
	return PathSource{Path: path}
}

// FromMat returns a source for an already decoded Mat
func FromMat(name string, mat gocv.Mat) ImageSource {
	return MatSource{Name: name, Mat: mat}
}

// FromImage returns a source for an already decoded Go image
func FromImage(name string, img image.Image) ImageSource {
	return GoImageSource{Name: name, Image: img}
}

func (s PathSource) Describe() string { return s.Path }

func (s MatSource) Describe() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("<decoded %dx%d>", s.Mat.Cols(), s.Mat.Rows())
}

func (s GoImageSource) Describe() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Image == nil {
		return "<decoded nil>"
	}
	b := s.Image.Bounds()
	return fmt.Sprintf("<decoded %dx%d>", b.Dx(), b.Dy())
}

func (s PathSource) resolve(registry *ImageLoaderRegistry) (*ResolvedImage, error) {
	mat, err := registry.LoadImage(s.Path)
	if err != nil {
		return nil, err
	}
	return &ResolvedImage{Mat: mat, owned: true}, nil
}

func (s MatSource) resolve(*ImageLoaderRegistry) (*ResolvedImage, error) {
	return &ResolvedImage{Mat: s.Mat}, nil
}

func (s GoImageSource) resolve(*ImageLoaderRegistry) (*ResolvedImage, error) {
	if s.Image == nil {
		return nil, &DimensionError{Op: "resolve " + s.Describe()}
	}
	mat, err := matFromGoImage(s.Image)
	if err != nil {
		return nil, err
	}
	return &ResolvedImage{Mat: mat, owned: true}, nil
}

// ResolvedImage is a source turned into a Mat. Close releases the Mat only
// when it was created during resolution; caller-supplied Mats are left alone.
type ResolvedImage struct {
	Mat   gocv.Mat
	owned bool
}

// Close releases the Mat if the resolver created it
func (r *ResolvedImage) Close() error {
	if r == nil || !r.owned {
		return nil
	}
	r.owned = false
	return r.Mat.Close()
}

// Resolve turns src into a Mat, loading files through registry
func Resolve(src ImageSource, registry *ImageLoaderRegistry) (*ResolvedImage, error) {
	if src == nil {
		return nil, &ConfigError{Field: "image source", Value: nil, Reason: "source is nil"}
	}
	if registry == nil {
		registry = NewImageLoaderRegistry()
	}
	return src.resolve(registry)
}
