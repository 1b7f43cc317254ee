package asciiart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidBuffer allocates an unbudgeted w x h buffer filled with one color.
func solidBuffer(t *testing.T, w, h int, r, g, b uint8) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(w, h, nil)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, r, g, b)
		}
	}
	return buf
}

func TestResampleDimensions(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		tgtW, tgtH   int
		keepAspect   bool
		wantW, wantH int
	}{
		{name: "square downscale", srcW: 64, srcH: 64, tgtW: 8, tgtH: 8, keepAspect: true, wantW: 8, wantH: 8},
		{name: "wide source shrinks height", srcW: 64, srcH: 32, tgtW: 10, tgtH: 10, keepAspect: true, wantW: 10, wantH: 5},
		{name: "tall source shrinks width", srcW: 32, srcH: 64, tgtW: 10, tgtH: 10, keepAspect: true, wantW: 5, wantH: 10},
		{name: "stretch ignores aspect", srcW: 64, srcH: 32, tgtW: 10, tgtH: 10, keepAspect: false, wantW: 10, wantH: 10},
		{name: "extreme ratio floors at one", srcW: 1000, srcH: 2, tgtW: 10, tgtH: 10, keepAspect: true, wantW: 10, wantH: 1},
		{name: "upscale", srcW: 4, srcH: 4, tgtW: 16, tgtH: 16, keepAspect: true, wantW: 16, wantH: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solidBuffer(t, tt.srcW, tt.srcH, 120, 130, 140)
			defer src.Release()

			opts := DefaultProcessOptions()
			opts.MaintainAspectRatio = tt.keepAspect

			dst, err := Resample(src, tt.tgtW, tt.tgtH, opts, nil)
			require.NoError(t, err)
			defer dst.Release()

			assert.Equal(t, tt.wantW, dst.W)
			assert.Equal(t, tt.wantH, dst.H)
		})
	}
}

func TestResampleSolidColorIsStable(t *testing.T) {
	src := solidBuffer(t, 32, 32, 87, 150, 203)
	defer src.Release()

	for _, bilinear := range []bool{true, false} {
		opts := DefaultProcessOptions()
		opts.UseBilinearFiltering = bilinear

		dst, err := Resample(src, 8, 8, opts, nil)
		require.NoError(t, err)
		for y := 0; y < dst.H; y++ {
			for x := 0; x < dst.W; x++ {
				r, g, b := dst.At(x, y)
				assert.Equal(t, [3]uint8{87, 150, 203}, [3]uint8{r, g, b})
			}
		}
		dst.Release()
	}
}

func TestResampleDoesNotMutateSource(t *testing.T) {
	src := solidBuffer(t, 8, 8, 10, 20, 30)
	defer src.Release()

	opts := DefaultProcessOptions()
	opts.BrightnessAdjust = 2.0

	dst, err := Resample(src, 4, 4, opts, nil)
	require.NoError(t, err)
	defer dst.Release()

	r, g, b := src.At(3, 3)
	assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})
	r, _, _ = dst.At(2, 2)
	assert.Equal(t, uint8(20), r, "brightness applied to output only")
}

func TestResampleOverBudget(t *testing.T) {
	src := solidBuffer(t, 8, 8, 0, 0, 0)
	defer src.Release()

	budget := NewMemoryBudget(10)
	_, err := Resample(src, 4, 4, DefaultProcessOptions(), budget)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 0, budget.Reserved())
}

func TestResampleInvalidInput(t *testing.T) {
	src := solidBuffer(t, 8, 8, 0, 0, 0)
	defer src.Release()

	_, err := Resample(nil, 4, 4, DefaultProcessOptions(), nil)
	assert.ErrorIs(t, err, ErrAllocationFailure)

	_, err = Resample(src, 0, 4, DefaultProcessOptions(), nil)
	assert.ErrorIs(t, err, ErrAllocationFailure)
}

func TestAdjustPixel(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b    uint8
		brightness float64
		contrast   float64
		wantR      uint8
		wantG      uint8
		wantB      uint8
	}{
		{name: "neutral", r: 100, g: 150, b: 200, brightness: 1.0, contrast: 1.0, wantR: 100, wantG: 150, wantB: 200},
		{name: "double brightness clamps", r: 100, g: 150, b: 200, brightness: 2.0, contrast: 1.0, wantR: 200, wantG: 255, wantB: 255},
		{name: "half brightness", r: 100, g: 150, b: 200, brightness: 0.5, contrast: 1.0, wantR: 50, wantG: 75, wantB: 100},
		{name: "contrast pivots at 128", r: 128, g: 64, b: 192, brightness: 1.0, contrast: 2.0, wantR: 128, wantG: 0, wantB: 255},
		{name: "low contrast pulls toward gray", r: 0, g: 255, b: 128, brightness: 1.0, contrast: 0.5, wantR: 64, wantG: 191, wantB: 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := AdjustPixel(tt.r, tt.g, tt.b, tt.brightness, tt.contrast)
			assert.Equal(t, tt.wantR, r)
			assert.Equal(t, tt.wantG, g)
			assert.Equal(t, tt.wantB, b)
		})
	}
}
