package imageprocessor

import (
	"bytes"
	"errors"
	"os"

	"imagediff/logging"

	"gocv.io/x/gocv"
)

// maxPreviewCandidates bounds how many JPEG start markers are tried per file
const maxPreviewCandidates = 32

var jpegSOI = []byte{0xFF, 0xD8, 0xFF}

// loadEmbeddedJPEG scans a container file (RAW, CR3, ...) for JPEG start
// markers and returns the largest image that decodes. The decoder stops at
// the end-of-image marker, so trailing container bytes do not matter.
func loadEmbeddedJPEG(path string) (gocv.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gocv.NewMat(), err
	}

	best := gocv.NewMat()
	bestArea := 0
	tried := 0

	for offset := 0; tried < maxPreviewCandidates; {
		idx := bytes.Index(data[offset:], jpegSOI)
		if idx < 0 {
			break
		}
		start := offset + idx
		offset = start + len(jpegSOI)
		tried++

		img, err := gocv.IMDecode(data[start:], readFlags)
		if err != nil {
			continue
		}
		if img.Empty() {
			img.Close()
			continue
		}

		if area := img.Cols() * img.Rows(); area > bestArea {
			best.Close()
			best = img
			bestArea = area
		} else {
			img.Close()
		}
	}

	if bestArea == 0 {
		best.Close()
		return gocv.NewMat(), errors.New("no embedded JPEG found")
	}

	logging.DebugLog("Found embedded JPEG (%dx%d) in %s after %d candidates", best.Cols(), best.Rows(), path, tried)
	return best, nil
}
