// Package similarity scores how alike two images are, once by comparing
// difference-hash fingerprints and once by counting pixels that changed.
package similarity

import (
	"context"
	"fmt"
	"time"

	"imagediff/imageprocessor"
	"imagediff/logging"
	"imagediff/types"

	"github.com/sirupsen/logrus"
)

// CompareOptions configures a Comparator
type CompareOptions struct {
	// HashSize is the fingerprint grid size; 0 means DefaultHashSize
	HashSize int
}

// Comparator resolves two image sources and runs both comparisons on them
type Comparator struct {
	registry *imageprocessor.ImageLoaderRegistry
	hashSize int
}

// NewComparator creates a Comparator. A nil registry gets the default loaders.
func NewComparator(registry *imageprocessor.ImageLoaderRegistry, options CompareOptions) (*Comparator, error) {
	hashSize := options.HashSize
	if hashSize == 0 {
		hashSize = DefaultHashSize
	}
	if err := ValidateHashSize(hashSize); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = imageprocessor.NewImageLoaderRegistry()
	}

	return &Comparator{
		registry: registry,
		hashSize: hashSize,
	}, nil
}

// HashSize returns the fingerprint grid size in use
func (c *Comparator) HashSize() int {
	return c.hashSize
}

// Compare runs the pixel comparison and then the hash comparison on a and b.
// Either both scores are produced or an error is returned. ctx is checked
// between stages; a stage already running is not interrupted.
func (c *Comparator) Compare(ctx context.Context, a, b imageprocessor.ImageSource) (*types.ComparisonResult, error) {
	imgA, err := imageprocessor.Resolve(a, c.registry)
	if err != nil {
		return nil, err
	}
	defer imgA.Close()

	imgB, err := imageprocessor.Resolve(b, c.registry)
	if err != nil {
		return nil, err
	}
	defer imgB.Close()

	result := &types.ComparisonResult{
		SourceA:  a.Describe(),
		SourceB:  b.Describe(),
		HashSize: c.hashSize,
	}
	log := logging.WithFields(logrus.Fields{"a": result.SourceA, "b": result.SourceB})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	pixel, err := ComparePixels(imgA.Mat, imgB.Mat)
	if err != nil {
		return nil, fmt.Errorf("pixel comparison failed: %w", err)
	}
	result.Pixel = pixel
	result.PixelElapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"differing_pixels": pixel.DifferingPixels,
		"total_pixels":     pixel.TotalPixels,
		"channel_total":    pixel.TotalChannelDifference,
	}).Debug("pixel comparison done")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result.HashA, err = ComputeDifferenceHash(imgA.Mat, c.hashSize)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", result.SourceA, err)
	}
	result.HashB, err = ComputeDifferenceHash(imgB.Mat, c.hashSize)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", result.SourceB, err)
	}
	result.Hash, err = CompareHashes(result.HashA, result.HashB)
	if err != nil {
		return nil, err
	}
	result.HashElapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"hash_a": result.HashA,
		"hash_b": result.HashB,
	}).Debug("hash comparison done")

	return result, nil
}
