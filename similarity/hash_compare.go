package similarity

import (
	"imagediff/imageprocessor"
	"imagediff/types"
)

// CompareHashes scores two fingerprints by the share of positions holding the
// same hex character. Positions past the end of the shorter string never
// match, so fingerprints of different lengths still compare.
//
// The unit of comparison is the hex digit, not the bit: digits that differ in
// a single bit count as a full mismatch, exactly like digits that differ in
// all four. This is coarser than a Hamming distance over the underlying bits.
func CompareHashes(hashA, hashB string) (types.SimilarityScore, error) {
	total := len(hashA)
	if len(hashB) > total {
		total = len(hashB)
	}
	if total == 0 {
		return types.SimilarityScore{}, &imageprocessor.DimensionError{Op: "compare hashes"}
	}

	matches := 0
	for i := 0; i < total; i++ {
		if i < len(hashA) && i < len(hashB) && hashA[i] == hashB[i] {
			matches++
		}
	}

	return types.NewSimilarityScore(float64(matches) / float64(total)), nil
}
