package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropRegion(t *testing.T) {
	img := createStaffImage(40, 30, 12)

	cropped, err := CropRegion(img, Region{X1: 10, Y1: 5, X2: 30, Y2: 25})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 20, 20), cropped.Bounds())
	r, _, _, _ := cropped.At(0, 7).RGBA()
	assert.Zero(t, r, "staff row 12 is row 7 inside the crop")
}

func TestCropRegion_Invalid(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)

	tests := []struct {
		name   string
		region Region
		errMsg string
	}{
		{"outside right", Region{0, 0, 25, 10}, "outside image bounds"},
		{"negative", Region{-1, 0, 10, 10}, "outside image bounds"},
		{"empty width", Region{5, 5, 5, 10}, "invalid crop region"},
		{"inverted height", Region{0, 10, 10, 5}, "invalid crop region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CropRegion(img, tt.region)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestCropRegion_MaskUsesLocalColumns(t *testing.T) {
	img := createStaffImage(40, 30, 12)

	cropped, err := CropRegion(img, Region{X1: 10, Y1: 5, X2: 30, Y2: 25})
	require.NoError(t, err)

	m := NewEdgeMask(cropped, DefaultEdgeThreshold)
	assert.Equal(t, 20, m.Width())
	assert.Equal(t, []int{6, 8}, m.Positions(0))
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := createStaffImage(12, 8, 3)

	path := filepath.Join(dir, "out.png")
	require.NoError(t, SaveImage(img, path))

	cache := NewImageCache()
	loaded, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 8), loaded.Bounds())

	err = SaveImage(img, filepath.Join(dir, "out.unknownext"))
	assert.ErrorContains(t, err, "failed to save image")
}
