package types

import "time"

// SimilarityScore is a difference/similarity pair, Similarity = 1 - Difference
type SimilarityScore struct {
	Difference float64 `json:"difference"`
	Similarity float64 `json:"similarity"`
}

// NewSimilarityScore builds a score from the similarity ratio
func NewSimilarityScore(similarity float64) SimilarityScore {
	return SimilarityScore{
		Difference: 1 - similarity,
		Similarity: similarity,
	}
}

// NewScoreFromDifference builds a score from the difference ratio
func NewScoreFromDifference(difference float64) SimilarityScore {
	return SimilarityScore{
		Difference: difference,
		Similarity: 1 - difference,
	}
}

// PixelComparison holds the pixel score and the counters it was derived from
type PixelComparison struct {
	Score           SimilarityScore `json:"score"`
	DifferingPixels int             `json:"differing_pixels"`
	TotalPixels     int             `json:"total_pixels"`
	// TotalChannelDifference is the summed |dr|+|dg|+|db| over every pixel.
	// Diagnostic only, it does not feed Score.
	TotalChannelDifference int64 `json:"total_channel_difference"`
}

// ComparisonResult is everything one comparison of two images produces
type ComparisonResult struct {
	SourceA      string          `json:"source_a"`
	SourceB      string          `json:"source_b"`
	HashSize     int             `json:"hash_size"`
	Pixel        PixelComparison `json:"pixel"`
	HashA        string          `json:"hash_a"`
	HashB        string          `json:"hash_b"`
	Hash         SimilarityScore `json:"hash"`
	PixelElapsed time.Duration   `json:"pixel_elapsed"`
	HashElapsed  time.Duration   `json:"hash_elapsed"`
}
