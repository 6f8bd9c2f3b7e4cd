package similarity

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imagediff/imageprocessor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComparator(t *testing.T, hashSize int) *Comparator {
	t.Helper()
	c, err := NewComparator(nil, CompareOptions{HashSize: hashSize})
	require.NoError(t, err)
	return c
}

func TestComparator_FlatImagesDivergeBetweenMetrics(t *testing.T) {
	c := newTestComparator(t, 0)

	result, err := c.Compare(context.Background(),
		imageprocessor.FromMat("white", solidMat(t, 8, 8, white)),
		imageprocessor.FromMat("black", solidMat(t, 8, 8, black)))
	require.NoError(t, err)

	assert.Equal(t, "white", result.SourceA)
	assert.Equal(t, "black", result.SourceB)
	assert.Equal(t, DefaultHashSize, result.HashSize)

	assert.Equal(t, 0.0, result.Pixel.Score.Similarity)
	assert.Equal(t, 1.0, result.Pixel.Score.Difference)

	assert.Equal(t, result.HashA, result.HashB)
	assert.Equal(t, 1.0, result.Hash.Similarity)
	assert.Equal(t, 0.0, result.Hash.Difference)
}

func TestComparator_Identity(t *testing.T) {
	c := newTestComparator(t, 0)
	img := patternRGBA(48, 32)

	result, err := c.Compare(context.Background(),
		imageprocessor.FromImage("", img),
		imageprocessor.FromImage("", img))
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Pixel.Score.Similarity)
	assert.Equal(t, 1.0, result.Hash.Similarity)
	assert.Len(t, result.HashA, 16)
	assert.Equal(t, "<decoded 48x32>", result.SourceA)
}

func TestComparator_IdenticalJPEGFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.jpg")
	second := filepath.Join(dir, "second.jpg")

	f, err := os.Create(first)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, patternRGBA(120, 80), &jpeg.Options{Quality: 85}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(second, data, 0644))

	c := newTestComparator(t, 0)
	result, err := c.Compare(context.Background(), imageprocessor.FromPath(first), imageprocessor.FromPath(second))
	require.NoError(t, err)

	assert.Equal(t, first, result.SourceA)
	assert.Equal(t, 1.0, result.Pixel.Score.Similarity)
	assert.Equal(t, 120*80, result.Pixel.TotalPixels)
	assert.Equal(t, 1.0, result.Hash.Similarity)
}

func TestComparator_MissingFile(t *testing.T) {
	c := newTestComparator(t, 0)
	missing := filepath.Join(t.TempDir(), "nope.png")

	_, err := c.Compare(context.Background(),
		imageprocessor.FromPath(missing),
		imageprocessor.FromMat("", solidMat(t, 4, 4, white)))

	var decodeErr *imageprocessor.DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)
	assert.Equal(t, missing, decodeErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestComparator_LeavesCallerMatsOpen(t *testing.T) {
	c := newTestComparator(t, 0)
	img := solidMat(t, 5, 5, white)

	_, err := c.Compare(context.Background(), imageprocessor.FromMat("", img), imageprocessor.FromMat("", img))
	require.NoError(t, err)

	assert.False(t, img.Empty())
	assert.Equal(t, 5, img.Cols())
}

func TestComparator_HashSizeOption(t *testing.T) {
	c := newTestComparator(t, 4)
	assert.Equal(t, 4, c.HashSize())

	img := imageprocessor.FromImage("p", patternRGBA(20, 20))
	result, err := c.Compare(context.Background(), img, img)
	require.NoError(t, err)
	assert.Len(t, result.HashA, 4)
	assert.Equal(t, 4, result.HashSize)
}

func TestNewComparator_InvalidHashSize(t *testing.T) {
	_, err := NewComparator(nil, CompareOptions{HashSize: 3})
	var cfgErr *imageprocessor.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestComparator_CancelledContext(t *testing.T) {
	c := newTestComparator(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := imageprocessor.FromMat("", solidMat(t, 4, 4, white))
	_, err := c.Compare(ctx, img, img)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparator_NilSource(t *testing.T) {
	c := newTestComparator(t, 0)

	_, err := c.Compare(context.Background(), nil, imageprocessor.FromMat("", solidMat(t, 4, 4, white)))
	var cfgErr *imageprocessor.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func savePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saved.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestComparator_DecodedImageMatchesSavedFile(t *testing.T) {
	img := patternRGBA(37, 23)
	c := newTestComparator(t, 0)

	result, err := c.Compare(context.Background(), imageprocessor.FromImage("", img), imageprocessor.FromPath(savePNG(t, img)))
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Pixel.Score.Similarity)
	assert.Equal(t, 0, result.Pixel.DifferingPixels)
	assert.Equal(t, result.HashA, result.HashB)
}

func TestComparator_SubImageMatchesSavedCrop(t *testing.T) {
	parent := patternRGBA(60, 50)
	sub := parent.SubImage(image.Rect(11, 9, 43, 33))
	c := newTestComparator(t, 0)

	result, err := c.Compare(context.Background(), imageprocessor.FromImage("crop", sub), imageprocessor.FromPath(savePNG(t, sub)))
	require.NoError(t, err)

	assert.Equal(t, 32*24, result.Pixel.TotalPixels)
	assert.Equal(t, 1.0, result.Pixel.Score.Similarity)
	assert.Equal(t, result.HashA, result.HashB)
}
