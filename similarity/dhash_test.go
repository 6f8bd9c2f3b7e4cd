package similarity

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"imagediff/imageprocessor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestComputeDifferenceHash_Length(t *testing.T) {
	img := toMat(t, patternRGBA(64, 48))

	hash, err := ComputeDifferenceHash(img, DefaultHashSize)
	require.NoError(t, err)
	assert.Len(t, hash, 16)
	assert.Equal(t, strings.ToLower(hash), hash)

	hash, err = ComputeDifferenceHash(img, 16)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash, err = ComputeDifferenceHash(img, 4)
	require.NoError(t, err)
	assert.Len(t, hash, 4)
}

func TestComputeDifferenceHash_Deterministic(t *testing.T) {
	img := toMat(t, patternRGBA(50, 50))

	first, err := ComputeDifferenceHash(img, DefaultHashSize)
	require.NoError(t, err)
	second, err := ComputeDifferenceHash(img, DefaultHashSize)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeDifferenceHash_FlatImagesCollapse(t *testing.T) {
	whiteHash, err := ComputeDifferenceHash(solidMat(t, 8, 8, white), DefaultHashSize)
	require.NoError(t, err)
	blackHash, err := ComputeDifferenceHash(solidMat(t, 8, 8, black), DefaultHashSize)
	require.NoError(t, err)
	redHash, err := ComputeDifferenceHash(solidMat(t, 30, 20, color.RGBA{R: 200, A: 255}), DefaultHashSize)
	require.NoError(t, err)

	assert.Equal(t, "0000000000000000", whiteHash)
	assert.Equal(t, whiteHash, blackHash)
	assert.Equal(t, whiteHash, redHash)
}

func TestComputeDifferenceHash_GradientDirection(t *testing.T) {
	// 90x80 shrinks to 9x8 in whole 10x10 blocks, so block means keep the
	// strict ordering of the columns.
	darkening := grayGradientMat(t, 90, 80, 250, -2)
	brightening := grayGradientMat(t, 90, 80, 70, 2)

	hash, err := ComputeDifferenceHash(darkening, DefaultHashSize)
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffff", hash)

	hash, err = ComputeDifferenceHash(brightening, DefaultHashSize)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000", hash)
}

func TestComputeDifferenceHash_GrayAndColorAgree(t *testing.T) {
	gray := grayGradientMat(t, 90, 80, 250, -2)
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(gray, &bgr, gocv.ColorGrayToBGR)

	fromGray, err := ComputeDifferenceHash(gray, DefaultHashSize)
	require.NoError(t, err)
	fromColor, err := ComputeDifferenceHash(bgr, DefaultHashSize)
	require.NoError(t, err)

	assert.Equal(t, fromGray, fromColor)
}

func TestComputeDifferenceHash_InvalidHashSize(t *testing.T) {
	img := toMat(t, patternRGBA(20, 20))

	for _, size := range []int{-1, 0, 2, 3, 5} {
		_, err := ComputeDifferenceHash(img, size)
		var cfgErr *imageprocessor.ConfigError
		require.True(t, errors.As(err, &cfgErr), "size %d: %v", size, err)
		assert.Equal(t, "hash size", cfgErr.Field)
	}
}

func TestComputeDifferenceHash_EmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := ComputeDifferenceHash(empty, DefaultHashSize)
	var dimErr *imageprocessor.DimensionError
	assert.True(t, errors.As(err, &dimErr), "got %v", err)
}

func TestPackBits(t *testing.T) {
	bitsAt := func(n int, set ...int) []bool {
		bits := make([]bool, n)
		for _, i := range set {
			bits[i] = true
		}
		return bits
	}

	tests := []struct {
		name string
		bits []bool
		want string
	}{
		{"empty", nil, ""},
		{"first bit is least significant", bitsAt(8, 0), "01"},
		{"eighth bit is most significant", bitsAt(8, 7), "80"},
		{"second byte", bitsAt(16, 8), "0001"},
		{"zero padded", bitsAt(8, 1, 2), "06"},
		{"all set", bitsAt(8, 0, 1, 2, 3, 4, 5, 6, 7), "ff"},
		{"partial group flushed", bitsAt(12, 0, 8, 11), "0109"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packBits(tt.bits))
		})
	}
}
