package similarity

import (
	"fmt"
	"strings"

	"imagediff/imageprocessor"

	"gocv.io/x/gocv"
)

// DefaultHashSize gives a 64-bit fingerprint of 16 hex characters
const DefaultHashSize = 8

// ValidateHashSize rejects sizes whose bit count does not pack into whole bytes
func ValidateHashSize(hashSize int) error {
	if hashSize < 1 {
		return &imageprocessor.ConfigError{Field: "hash size", Value: hashSize, Reason: "must be at least 1"}
	}
	if (hashSize*hashSize)%8 != 0 {
		return &imageprocessor.ConfigError{
			Field:  "hash size",
			Value:  hashSize,
			Reason: fmt.Sprintf("%d bits do not pack into whole bytes", hashSize*hashSize),
		}
	}
	return nil
}

// ComputeDifferenceHash fingerprints img by the direction of its horizontal
// luminance gradients. The image is reduced to grayscale, resampled with the
// smoothing filter to (hashSize+1) x hashSize, and each pixel contributes one
// bit: set when it is brighter than its right neighbour. Absolute brightness
// is ignored, so any two flat images hash the same.
//
// The result has hashSize*hashSize/4 lowercase hex characters.
func ComputeDifferenceHash(img gocv.Mat, hashSize int) (string, error) {
	if err := ValidateHashSize(hashSize); err != nil {
		return "", err
	}

	gray, err := imageprocessor.ToGrayscale(img)
	if err != nil {
		return "", fmt.Errorf("cannot compute difference hash: %w", err)
	}
	defer gray.Close()

	small, err := imageprocessor.Resize(gray, hashSize+1, hashSize, imageprocessor.FilterSmoothing)
	if err != nil {
		return "", fmt.Errorf("cannot compute difference hash: %w", err)
	}
	defer small.Close()

	bits := make([]bool, 0, hashSize*hashSize)
	for row := 0; row < hashSize; row++ {
		for col := 0; col < hashSize; col++ {
			left := small.GetUCharAt(row, col)
			right := small.GetUCharAt(row, col+1)
			bits = append(bits, left > right)
		}
	}

	return packBits(bits), nil
}

// packBits packs bits into bytes, bit i worth 2^(i mod 8) within its byte, and
// renders each byte as two hex digits. A trailing group of fewer than 8 bits
// is flushed as its own byte.
func packBits(bits []bool) string {
	var hash strings.Builder
	hash.Grow((len(bits) + 7) / 8 * 2)

	var currentByte byte
	for i, bit := range bits {
		if bit {
			currentByte |= 1 << uint(i%8)
		}
		if i%8 == 7 {
			fmt.Fprintf(&hash, "%02x", currentByte)
			currentByte = 0
		}
	}

	if len(bits)%8 != 0 {
		fmt.Fprintf(&hash, "%02x", currentByte)
	}

	return hash.String()
}
