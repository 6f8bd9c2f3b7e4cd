package imageprocessor

import (
	"errors"
	"fmt"

	"imagediff/logging"

	"github.com/barasher/go-exiftool"
	"gocv.io/x/gocv"
)

// previewTags lists the embedded preview tags in order of preference
var previewTags = []string{
	"JpgFromRaw",
	"LargestImagePreview",
	"PreviewImage",
	"OtherImage",
	"ThumbnailImage",
}

// RawImageLoader handles RAW camera formats through their embedded previews
type RawImageLoader struct {
	BaseImageLoader
}

// NewRawImageLoader creates a new loader for RAW files
func NewRawImageLoader() *RawImageLoader {
	return &RawImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{
				FormatRAW,
				FormatCR2,
				FormatCR3,
				FormatNEF,
				FormatARW,
				FormatDNG,
			},
		},
	}
}

// LoadImage decodes the largest preview image embedded in the RAW file. The
// preview tags reported by exiftool are tried first; without exiftool, or when
// none of them decode, the file is scanned for embedded JPEG data.
func (l *RawImageLoader) LoadImage(path string) (gocv.Mat, error) {
	if hasExiftool() {
		img, err := loadPreviewWithExiftool(path)
		if err == nil {
			return img, nil
		}
		logging.LogWarning("exiftool preview extraction failed for %s: %v", path, err)
	} else {
		logging.DebugLog("exiftool not found, scanning %s for embedded JPEG data", path)
	}

	img, err := loadEmbeddedJPEG(path)
	if err != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

func loadPreviewWithExiftool(path string) (gocv.Mat, error) {
	tags, err := availablePreviewTags(path)
	if err != nil {
		return gocv.NewMat(), err
	}

	for _, tag := range tags {
		data, err := extractTagWithExiftool(path, tag)
		if err != nil {
			continue
		}

		img, err := gocv.IMDecode(data, readFlags)
		if err != nil {
			logging.LogWarning("Could not decode %s preview of %s: %v", tag, path, err)
			continue
		}
		if img.Empty() {
			img.Close()
			logging.LogWarning("Could not decode %s preview of %s", tag, path)
			continue
		}

		logging.DebugLog("Loaded %s preview (%dx%d) from %s", tag, img.Cols(), img.Rows(), path)
		return img, nil
	}

	return gocv.NewMat(), errors.New("no decodable preview image")
}

// availablePreviewTags asks exiftool which preview tags the file carries
func availablePreviewTags(path string) ([]string, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	defer et.Close()

	fileInfos := et.ExtractMetadata(path)
	if len(fileInfos) == 0 {
		return nil, errors.New("no metadata extracted")
	}

	fileInfo := fileInfos[0]
	if fileInfo.Err != nil {
		return nil, fmt.Errorf("error extracting metadata: %w", fileInfo.Err)
	}

	var tags []string
	for _, tag := range previewTags {
		if _, ok := fileInfo.Fields[tag]; ok {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return nil, errors.New("no embedded preview image")
	}
	return tags, nil
}
