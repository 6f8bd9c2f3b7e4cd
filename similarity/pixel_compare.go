package similarity

import (
	"fmt"

	"imagediff/imageprocessor"
	"imagediff/types"

	"gocv.io/x/gocv"
)

// ComparePixels resamples imgB to imgA's size with the bilinear filter and
// reports the share of pixels whose BGR values differ at all. A pixel that
// moved by one unit in one channel counts the same as one that went from
// black to white; the summed channel difference is reported separately.
func ComparePixels(imgA, imgB gocv.Mat) (types.PixelComparison, error) {
	if err := imageprocessor.CheckDimensions("compare pixels", imgA); err != nil {
		return types.PixelComparison{}, err
	}
	if err := imageprocessor.CheckDimensions("compare pixels", imgB); err != nil {
		return types.PixelComparison{}, err
	}

	bgrA, err := imageprocessor.ToBGR(imgA)
	if err != nil {
		return types.PixelComparison{}, fmt.Errorf("cannot normalize first image: %w", err)
	}
	defer bgrA.Close()

	bgrB, err := imageprocessor.ToBGR(imgB)
	if err != nil {
		return types.PixelComparison{}, fmt.Errorf("cannot normalize second image: %w", err)
	}
	defer bgrB.Close()

	width, height := bgrA.Cols(), bgrA.Rows()
	resizedB, err := imageprocessor.Resize(bgrB, width, height, imageprocessor.FilterBilinear)
	if err != nil {
		return types.PixelComparison{}, fmt.Errorf("cannot resize second image: %w", err)
	}
	defer resizedB.Close()

	pixelsA := bgrA.ToBytes()
	pixelsB := resizedB.ToBytes()

	totalPixels := width * height
	if len(pixelsA) != totalPixels*3 || len(pixelsB) != totalPixels*3 {
		return types.PixelComparison{}, fmt.Errorf("unexpected pixel buffer sizes %d and %d for %dx%d",
			len(pixelsA), len(pixelsB), width, height)
	}

	var differing int
	var channelTotal int64
	for i := 0; i < totalPixels; i++ {
		offset := i * 3
		diff := absDiff(pixelsA[offset], pixelsB[offset]) +
			absDiff(pixelsA[offset+1], pixelsB[offset+1]) +
			absDiff(pixelsA[offset+2], pixelsB[offset+2])
		if diff != 0 {
			differing++
		}
		channelTotal += int64(diff)
	}

	return types.PixelComparison{
		Score:                  types.NewScoreFromDifference(float64(differing) / float64(totalPixels)),
		DifferingPixels:        differing,
		TotalPixels:            totalPixels,
		TotalChannelDifference: channelTotal,
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
